package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	. "github.com/teenfin/backend/apps/api/echo"
	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/lesson"
	"github.com/teenfin/backend/core/progress"
	"github.com/teenfin/backend/core/unit"
	"github.com/teenfin/backend/storage/database/sqlx"
	"github.com/teenfin/backend/tests"
)

const (
	adminID   = "user_admin"
	learnerID = "user_learner"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type env struct {
	app          *Server
	conf         *core.Config
	db           *sqlx.DB
	courseRepo   course.Repository
	unitRepo     unit.Repository
	lessonRepo   lesson.Repository
	progressRepo progress.Repository
	adminToken   string
	token        string // learner, not an admin
}

func setup(t *testing.T) env {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	conf := testutil.NewConfig(adminID)

	// set up server
	return env{
		app:          testutil.NewServer(t, conf, db),
		conf:         conf,
		db:           db,
		courseRepo:   sqlxrepos.NewCourseRepository(db),
		unitRepo:     sqlxrepos.NewUnitRepository(db),
		lessonRepo:   sqlxrepos.NewLessonRepository(db),
		progressRepo: sqlxrepos.NewProgressRepository(db),
		adminToken:   testutil.Token(t, conf, adminID, "Admin"),
		token:        testutil.Token(t, conf, learnerID, "Learner"),
	}
}

type httpErr struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func (e env) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	e.app.ServeHTTP(rec, req)
	return rec
}

func (e env) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, e.do(t, tt))
		})
	}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// decode reads the JSON body of rec into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}
