package importer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lending_docs/internal/ports"
)

type fakeOpener struct {
	data []byte
	meta ports.SourceMeta
	err  error
}

func (f fakeOpener) Open(context.Context, string) (io.ReadCloser, ports.SourceMeta, error) {
	if f.err != nil {
		return nil, ports.SourceMeta{}, f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), f.meta, nil
}

type captureProc struct {
	batches   [][]map[string]string
	recordIDs []string
	err       error
}

func (c *captureProc) Type() string { return "capture" }

func (c *captureProc) ProcessBatch(ctx context.Context, batch []map[string]string) error {
	if c.err != nil {
		return c.err
	}
	c.batches = append(c.batches, batch)
	c.recordIDs = append(c.recordIDs, ports.ImportRecordID(ctx))
	return nil
}

func TestImportCSVBatches(t *testing.T) {
	csvData := "ID, Name ,max_term\nsba_7a,SBA 7(a),300\n\nbridge,Bridge,36\nequip,Equipment,84\n"
	proc := &captureProc{}
	s := NewService(fakeOpener{data: []byte(csvData), meta: ports.SourceMeta{Source: "http", ContentType: "text/csv"}},
		map[string]ports.Processor{"capture": proc}, 2, nil)

	res, err := s.Import(context.Background(), Request{Type: "capture", FilePath: "https://host/programs.csv", ImportRecordID: "rec-9"})
	require.NoError(t, err)

	assert.Equal(t, "csv", res.Format)
	assert.Equal(t, 3, res.RowsProcessed)
	assert.Equal(t, int64(len(csvData)), res.SizeBytes)
	assert.Len(t, res.SHA256, 64)

	require.Len(t, proc.batches, 2)
	assert.Len(t, proc.batches[0], 2)
	assert.Len(t, proc.batches[1], 1)
	assert.Equal(t, map[string]string{"id": "sba_7a", "name": "SBA 7(a)", "max_term": "300"}, proc.batches[0][0])
	assert.Equal(t, []string{"rec-9", "rec-9"}, proc.recordIDs)
}

func TestImportXLSXWithoutExtension(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"program_id", "state"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"sba_7a", "NY"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"bridge", "TX"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	proc := &captureProc{}
	s := NewService(fakeOpener{data: buf.Bytes(), meta: ports.SourceMeta{Source: "s3"}},
		map[string]ports.Processor{"capture": proc}, 0, nil)

	res, err := s.Import(context.Background(), Request{Type: "capture", FilePath: "s3://bucket/upload"})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", res.Format)
	assert.Equal(t, 2, res.RowsProcessed)
	require.Len(t, proc.batches, 1)
	assert.Equal(t, "TX", proc.batches[0][1]["state"])
}

func TestImportCSVMislabelledAsXLSXFallsBack(t *testing.T) {
	proc := &captureProc{}
	s := NewService(fakeOpener{data: []byte("id\na\nb\n")}, map[string]ports.Processor{"capture": proc}, 10, nil)

	res, err := s.Import(context.Background(), Request{Type: "capture", FilePath: "/tmp/list.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "csv", res.Format)
	assert.Equal(t, 2, res.RowsProcessed)
}

func TestImportErrors(t *testing.T) {
	proc := &captureProc{}
	procs := map[string]ports.Processor{"capture": proc}

	_, err := NewService(fakeOpener{}, procs, 10, nil).Import(context.Background(), Request{Type: "other", FilePath: "x.csv"})
	assert.ErrorIs(t, err, ErrNoProcessor)

	_, err = NewService(fakeOpener{err: errors.New("404")}, procs, 10, nil).Import(context.Background(), Request{Type: "capture", FilePath: "x.csv"})
	assert.EqualError(t, err, "404")

	failing := &captureProc{err: errors.New("db down")}
	_, err = NewService(fakeOpener{data: []byte("id\na\n")}, map[string]ports.Processor{"capture": failing}, 10, nil).
		Import(context.Background(), Request{Type: "capture", FilePath: "x.csv"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "db down"))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, "xlsx", detectFormat("s3://b/k/file.XLSX", ""))
	assert.Equal(t, "csv", detectFormat("https://h/f.csv?sig=1", ""))
	assert.Equal(t, "csv", detectFormat("https://h/f", "text/csv; charset=utf-8"))
	assert.Equal(t, "", detectFormat("https://h/f", "application/octet-stream"))
}
