package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending_docs/internal/adapters/prose"
	"lending_docs/internal/ports"
	importitems "lending_docs/internal/repository/imports"
	"lending_docs/internal/repository/programs"
	"lending_docs/internal/services/compliance"
	"lending_docs/internal/services/documents"
	"lending_docs/internal/services/evaluations"
	"lending_docs/internal/services/importer"
	"lending_docs/internal/services/importer/processors"
)

type fakeOpener struct{ data string }

func (f fakeOpener) Open(context.Context, string) (io.ReadCloser, ports.SourceMeta, error) {
	return io.NopCloser(strings.NewReader(f.data)), ports.SourceMeta{Source: "http", ContentType: "text/csv"}, nil
}

type finished struct {
	id, status string
	count      int
	errMsg     string
}

type fakeRecords struct {
	inserted []importitems.Record
	finished []finished
}

func (f *fakeRecords) Insert(_ context.Context, rec importitems.Record) (string, error) {
	f.inserted = append(f.inserted, rec)
	return "rec-1", nil
}

func (f *fakeRecords) Finish(_ context.Context, id, status string, count int, errMsg string) error {
	f.finished = append(f.finished, finished{id, status, count, errMsg})
	return nil
}

func (f *fakeRecords) FindByID(_ context.Context, id string) (importitems.Record, error) {
	for _, r := range f.inserted {
		if r.ID == id {
			return r, nil
		}
	}
	return importitems.Record{}, importitems.ErrRecordNotFound
}

func (f *fakeRecords) List(_ context.Context, flt importitems.RecordFilter, limit, _ int64) ([]importitems.Record, int64, error) {
	out := []importitems.Record{}
	for _, r := range f.inserted {
		if flt.Type == "" || r.Type == flt.Type {
			out = append(out, r)
		}
	}
	total := int64(len(out))
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type fakeUploads struct{ keys []string }

func (f *fakeUploads) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (ports.ObjectInfo, error) {
	b, _ := io.ReadAll(r)
	f.keys = append(f.keys, key)
	return ports.ObjectInfo{Bucket: "lending-docs", Key: key, Size: int64(len(b))}, nil
}

func newTestHandlers(t *testing.T) (*Handlers, *fakeRecords) {
	t.Helper()
	reg, err := programs.Default()
	require.NoError(t, err)
	ev := compliance.NewEvaluator(reg)

	imported := programs.NewRegistry()
	csv := "id,name,max_ltv,max_term\nfarm,Farm,75,240\nranch,Ranch,70,180\n"
	imp := importer.NewService(fakeOpener{data: csv}, processors.Registry(processors.Deps{Registry: imported}), 10, nil)

	records := &fakeRecords{}
	h := New(Deps{
		Programs:    reg,
		Evaluations: evaluations.NewService(ev, nil, nil, nil),
		Documents:   documents.NewService(ev, reg, prose.FallbackGenerator{}, nil, nil, nil),
		Importer:    imp,
		Records:     records,
	})
	h.async = func(f func()) { f() }
	return h, records
}

func do(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

const creDealJSON = `{"program_id":"conventional_cre","state":"CA","terms":{"approved_amount":2000000,"interest_rate":0.075,"term_months":120,"amortization_months":300,"ltv":0.7,"late_fee_percent":0.05},"collateral_types":["Commercial real estate"]}`

func TestHealthReportsMissingBackends(t *testing.T) {
	h, _ := newTestHandlers(t)
	rr := do(h.Health, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, float64(12), body["programs"])
	assert.Contains(t, body["errors"], "postgres: not initialized")
	assert.Len(t, body["errors"], 3)
}

func TestDisclosures(t *testing.T) {
	h, _ := newTestHandlers(t)
	rr := do(h.Disclosures, http.MethodPost, "/disclosures",
		`{"terms":{"approved_amount":100000,"interest_rate":0.06,"term_months":360,"amortization_months":360}}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, float64(100000), body["loan_amount"])
	assert.Equal(t, float64(6), body["interest_rate_percent"])
	assert.Greater(t, body["apr"].(float64), 5.9)

	assert.Equal(t, http.StatusMethodNotAllowed, do(h.Disclosures, http.MethodGet, "/disclosures", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h.Disclosures, http.MethodPost, "/disclosures", "{").Code)
}

func TestDisclosuresValidation(t *testing.T) {
	h, _ := newTestHandlers(t)
	rr := do(h.Disclosures, http.MethodPost, "/disclosures", `{"terms":{"approved_amount":-5}}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, map[string]any{"terms.approved_amount": "gte"}, body["fields"])
}

func TestEvaluateInlineDeal(t *testing.T) {
	h, _ := newTestHandlers(t)
	rr := do(h.Evaluate, http.MethodPost, "/compliance/evaluate", `{"deal":`+creDealJSON+`,"save":true}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, "CA", body["state"])
	assert.Len(t, body["results"], 9)
	assert.Equal(t, true, body["summary"].(map[string]any)["enforceable"])
}

func TestEvaluateValidation(t *testing.T) {
	h, _ := newTestHandlers(t)

	rr := do(h.Evaluate, http.MethodPost, "/compliance/evaluate", `{}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]any{"deal": "required_without"}, decodeBody(t, rr)["fields"])
}

func TestEvaluateMissingProgramIsAResult(t *testing.T) {
	h, _ := newTestHandlers(t)

	rr := do(h.Evaluate, http.MethodPost, "/compliance/evaluate",
		`{"deal":{"state":"CA","terms":{"approved_amount":500000,"interest_rate":0.08,"term_months":60}}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	results := decodeBody(t, rr)["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "Program Validation", first["name"])
	assert.Equal(t, false, first["passed"])
	assert.Equal(t, "critical", first["severity"])
}

func TestEvaluateUnknownStateIsAWarning(t *testing.T) {
	h, _ := newTestHandlers(t)

	rr := do(h.Evaluate, http.MethodPost, "/compliance/evaluate",
		`{"deal":{"program_id":"conventional_cre","state":"Texas","terms":{"approved_amount":2000000,"interest_rate":0.075,"term_months":120,"amortization_months":300}}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var usury map[string]any
	for _, r := range decodeBody(t, rr)["results"].([]any) {
		if m := r.(map[string]any); m["name"] == "Usury Limit" {
			usury = m
		}
	}
	require.NotNil(t, usury)
	assert.Equal(t, true, usury["passed"])
	assert.Equal(t, "warning", usury["severity"])
}

func TestEvaluateByIDWithoutStore(t *testing.T) {
	h, _ := newTestHandlers(t)
	rr := do(h.Evaluate, http.MethodPost, "/compliance/evaluate", `{"deal_id":"d-1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestListEvaluations(t *testing.T) {
	h, _ := newTestHandlers(t)
	assert.Equal(t, http.StatusBadRequest, do(h.ListEvaluations, http.MethodGet, "/compliance/evaluations?limit=x", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h.ListEvaluations, http.MethodGet, "/compliance/evaluations", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h.ListEvaluations, http.MethodGet, "/compliance/evaluations?id=e1", "").Code)
}

func TestListPrograms(t *testing.T) {
	h, _ := newTestHandlers(t)

	rr := do(h.ListPrograms, http.MethodGet, "/programs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(12), decodeBody(t, rr)["total"])

	rr = do(h.ListPrograms, http.MethodGet, "/programs?id=sba_7a", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sba_7a", decodeBody(t, rr)["id"])

	assert.Equal(t, http.StatusNotFound, do(h.ListPrograms, http.MethodGet, "/programs?id=nope", "").Code)
}

func TestCreateDocument(t *testing.T) {
	h, _ := newTestHandlers(t)

	rr := do(h.CreateDocument, http.MethodPost, "/documents", `{"type":"term_sheet","deal":`+creDealJSON+`}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, "term_sheet", body["type"])
	assert.Equal(t, prose.SourceTemplate, body["prose_source"])
	assert.NotContains(t, body, "Content")

	rr = do(h.CreateDocument, http.MethodPost, "/documents?download=1", `{"type":"loan_estimate","deal":`+creDealJSON+`}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")))

	rr = do(h.CreateDocument, http.MethodPost, "/documents", `{"type":"memo","deal":`+creDealJSON+`}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]any{"type": "oneof"}, decodeBody(t, rr)["fields"])
}

func TestImportRunsAndFinishesRecord(t *testing.T) {
	h, records := newTestHandlers(t)

	rr := do(h.Import, http.MethodPost, "/import", `{"type":"loan_programs","file_path":"https://host/p.csv","import_record_id":"rec-7"}`)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	require.Len(t, records.finished, 1)
	assert.Equal(t, finished{id: "rec-7", status: importitems.StatusDone, count: 2}, records.finished[0])

	rr = do(h.Import, http.MethodPost, "/import", `{"type":"debts","file_path":"x.csv"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(h.Import, http.MethodPost, "/import", `{"type":"loan_programs"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]any{"file_path": "required"}, decodeBody(t, rr)["fields"])
}

func TestImportRecords(t *testing.T) {
	h, records := newTestHandlers(t)
	records.inserted = []importitems.Record{
		{ID: "a", Type: "loan_programs", Status: importitems.StatusDone},
		{ID: "b", Type: "deal_compliance", Status: importitems.StatusParsed},
	}

	rr := do(h.ImportRecords, http.MethodGet, "/imports?id=b", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "deal_compliance", decodeBody(t, rr)["type"])

	rr = do(h.ImportRecords, http.MethodGet, "/imports?id=zzz", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(h.ImportRecords, http.MethodGet, "/imports?type=loan_programs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(50), body["limit"])

	assert.Equal(t, http.StatusBadRequest, do(h.ImportRecords, http.MethodGet, "/imports?limit=-1", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h.ImportRecords, http.MethodPost, "/imports", "").Code)

	h.Records = nil
	assert.Equal(t, http.StatusServiceUnavailable, do(h.ImportRecords, http.MethodGet, "/imports", "").Code)
}

func TestUpload(t *testing.T) {
	h, records := newTestHandlers(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", "deal_compliance"))
	fw, err := mw.CreateFormFile("file", "deals.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("program_id,state,approved_amount\nsba_7a,NY,500000\n"))
	require.NoError(t, mw.Close())

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(buf.Bytes()))
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	rr := httptest.NewRecorder()
	h.Upload(rr, newReq())
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	uploads := &fakeUploads{}
	h.Uploads = uploads
	rr = httptest.NewRecorder()
	h.Upload(rr, newReq())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, "rec-1", body["id"])
	require.Len(t, uploads.keys, 1)
	assert.True(t, strings.HasSuffix(uploads.keys[0], "-deals.csv"))
	require.Len(t, records.inserted, 1)
	assert.Equal(t, "deal_compliance", records.inserted[0].Type)
	assert.Equal(t, "s3://lending-docs/"+uploads.keys[0], *records.inserted[0].Path)
}
