package mongo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"lending_docs/internal/config/connections"
)

type ConnectionInfo struct {
	Scheme     string
	User       string
	Password   string
	Host       string
	Port       string
	DB         string
	AuthSource string
	AppName    string
}

// URI builds the connection string. SRV records carry their own port.
func (i ConnectionInfo) URI() string {
	u := url.URL{Scheme: i.Scheme, Host: i.Host, Path: "/" + i.DB}
	if u.Scheme == "" {
		u.Scheme = "mongodb"
	}
	if i.Port != "" && u.Scheme != "mongodb+srv" {
		u.Host += ":" + i.Port
	}
	switch {
	case i.User != "" && i.Password != "":
		u.User = url.UserPassword(i.User, i.Password)
	case i.User != "":
		u.User = url.User(i.User)
	}
	if i.AuthSource != "" {
		u.RawQuery = url.Values{"authSource": {i.AuthSource}}.Encode()
	}
	return u.String()
}

type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewConnection(ctx context.Context, info ConnectionInfo) (*Mongo, error) {
	opts := options.Client().ApplyURI(info.URI())
	if info.AppName != "" {
		opts.SetAppName(info.AppName)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	m := &Mongo{Client: client, Database: client.Database(info.DB)}
	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

// Available reports whether collections can be used.
func (m *Mongo) Available() bool {
	return m != nil && m.Client != nil && m.Database != nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return connections.ErrNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
