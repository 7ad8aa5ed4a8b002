package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/browse"
	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const driveLink = "https://drive.google.com/file/d/1AbC-xyz_09/view?usp=sharing"

func strPtr(s string) *string {
	return &s
}

func TestCatalogEndToEnd(t *testing.T) {
	setupTest(t)
	token := login(t)

	var title models.Title
	rr := doJson(t, http.MethodPost, "/api/titles", &api.CreateTitleReq{Name: "B.Tech"}, token, &title)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	checkHeader(t, rr.Result().Header)
	assert.Equal(t, "/api/titles?id="+title.TitleID.String(), rr.Header().Get("Location"))
	assert.Equal(t, "B.Tech", title.Name)

	var class models.ClassWithTitle
	rr = doJson(t, http.MethodPost, "/api/classes",
		&api.CreateClassReq{TitleID: title.TitleID, Name: "Semester 1"}, token, &class)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NotNil(t, class.Title)
	assert.Equal(t, "B.Tech", class.Title.Name)

	var subject models.SubjectWithClass
	rr = doJson(t, http.MethodPost, "/api/subjects",
		&api.CreateSubjectReq{ClassID: class.ClassID, Name: "Physics"}, token, &subject)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var chapter models.ChapterChain
	rr = doJson(t, http.MethodPost, "/api/chapters", &api.CreateChapterReq{
		SubjectID: subject.SubjectID,
		Name:      "Optics",
		DriveLink: driveLink,
	}, token, &chapter)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.True(t, chapter.Complete())
	assert.Equal(t, "Physics", chapter.Subject.Name)
	assert.Equal(t, "Semester 1", chapter.Subject.Class.Name)
	assert.Equal(t, "B.Tech", chapter.Subject.Class.Title.Name)

	var list catalogmanager.ChapterList
	rr = doJson(t, http.MethodGet, "/api/chapters?titleId="+title.TitleID.String()+"&name=OPT", nil, nil, &list)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, list.Data, 1)
	assert.Equal(t, chapter.ChapterID, list.Data[0].ChapterID)
	assert.Equal(t, browse.Stats{TotalChapters: 1, TotalSubjects: 1, TotalClasses: 1, TotalTitles: 1}, list.Stats)

	var preview api.ChapterPreviewRsp
	rr = doJson(t, http.MethodGet, "/api/chapters/"+chapter.ChapterID.String()+"/preview", nil, nil, &preview)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "https://drive.google.com/file/d/1AbC-xyz_09/preview", preview.PreviewURL)

	var materials catalogmanager.Materials
	rr = doJson(t, http.MethodGet, "/api/materials", nil, nil, &materials)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, materials.Titles, 1)
	require.Len(t, materials.Titles[0].Classes, 1)
	require.Len(t, materials.Titles[0].Classes[0].Subjects, 1)
	assert.Equal(t, 1, materials.Titles[0].Classes[0].Subjects[0].ChapterCount)

	var updated models.ChapterChain
	rr = doJson(t, http.MethodPatch, "/api/chapters",
		&api.UpdateChapterReq{ID: chapter.ChapterID, Name: strPtr("Wave Optics")}, token, &updated)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Wave Optics", updated.Name)
	assert.Equal(t, driveLink, updated.DriveLink)

	var msg api.MessageRsp
	rr = doJson(t, http.MethodDelete, "/api/chapters?id="+chapter.ChapterID.String(), nil, token, &msg)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "chapter deleted", msg.Message)

	rr = doJson(t, http.MethodGet, "/api/chapters/"+chapter.ChapterID.String()+"/preview", nil, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMutationsRequireToken(t *testing.T) {
	setupTest(t)

	tests := []struct {
		method string
		target string
		body   any
	}{
		{http.MethodPost, "/api/titles", &api.CreateTitleReq{Name: "B.Tech"}},
		{http.MethodPatch, "/api/titles", &api.UpdateTitleReq{ID: uuid.New(), Name: strPtr("x")}},
		{http.MethodDelete, "/api/titles?id=" + uuid.NewString(), nil},
		{http.MethodPost, "/api/classes", &api.CreateClassReq{TitleID: uuid.New(), Name: "x"}},
		{http.MethodPost, "/api/subjects", &api.CreateSubjectReq{ClassID: uuid.New(), Name: "x"}},
		{http.MethodPost, "/api/chapters", &api.CreateChapterReq{SubjectID: uuid.New(), Name: "x", DriveLink: driveLink}},
		{http.MethodPost, "/api/mydetail", &api.MyDetailReq{Email: strPtr("me@example.com")}},
		{http.MethodGet, "/api/auth/session", nil},
	}
	bad := "not-a-token"
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := doJson(t, tt.method, tt.target, tt.body, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			rr = doJson(t, tt.method, tt.target, tt.body, &bad, nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}

	// reads stay public
	rr := doJson(t, http.MethodGet, "/api/titles", nil, nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogin(t *testing.T) {
	setupTest(t)

	rr := doJson(t, http.MethodPost, "/api/auth/login",
		&api.LoginReq{Username: testAdmin, Password: "wrong"}, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJson(t, http.MethodPost, "/api/auth/login", &api.LoginReq{Username: testAdmin}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	token := login(t)
	var session api.SessionRsp
	rr = doJson(t, http.MethodGet, "/api/auth/session", nil, token, &session)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, testAdmin, session.Username)
	assert.False(t, session.ExpiresAt.IsZero())
}

func TestErrorStatusMapping(t *testing.T) {
	setupTest(t)
	token := login(t)

	var title models.Title
	rr := doJson(t, http.MethodPost, "/api/titles", &api.CreateTitleReq{Name: "B.Tech"}, token, &title)
	require.Equal(t, http.StatusCreated, rr.Code)

	var httpErr httpx.Error

	// duplicate name
	rr = doJson(t, http.MethodPost, "/api/titles", &api.CreateTitleReq{Name: "  B.Tech "}, token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// blank name
	rr = doJson(t, http.MethodPost, "/api/titles", &api.CreateTitleReq{Name: "   "}, token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	checkHeader(t, rr.Result().Header)

	// unknown parent
	rr = doJson(t, http.MethodPost, "/api/classes", &api.CreateClassReq{TitleID: uuid.New(), Name: "Sem 1"}, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// not a drive link
	rr = doJson(t, http.MethodPost, "/api/chapters", &api.CreateChapterReq{
		SubjectID: uuid.New(), Name: "Optics", DriveLink: "https://example.com/doc",
	}, token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// unknown id on update and delete
	rr = doJson(t, http.MethodPatch, "/api/titles", &api.UpdateTitleReq{ID: uuid.New(), Name: strPtr("x")}, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = doJson(t, http.MethodDelete, "/api/titles?id="+uuid.NewString(), nil, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// malformed ids
	rr = doJson(t, http.MethodDelete, "/api/titles?id=42", nil, token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = doJson(t, http.MethodDelete, "/api/titles", nil, token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = doJson(t, http.MethodGet, "/api/chapters?subjectId=nope", nil, nil, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &httpErr))
	require.Len(t, httpErr.Fields, 1)
	assert.Equal(t, "subjectId", httpErr.Fields[0].Field)

	// unknown fields are rejected
	req, _ := http.NewRequest(http.MethodPost, "/api/titles", nil)
	setRequestBodyAndHeader(t, req, map[string]any{"name": "M.Tech", "color": "red"})
	rr = executeTestRequest(t, req, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListByParentAndName(t *testing.T) {
	setupTest(t)
	token := login(t)

	var t1, t2 models.Title
	doJson(t, http.MethodPost, "/api/titles", &api.CreateTitleReq{Name: "B.Tech"}, token, &t1)
	doJson(t, http.MethodPost, "/api/titles", &api.CreateTitleReq{Name: "M.Tech"}, token, &t2)
	for _, name := range []string{"Semester 1", "Semester 2"} {
		rr := doJson(t, http.MethodPost, "/api/classes", &api.CreateClassReq{TitleID: t1.TitleID, Name: name}, token, nil)
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr := doJson(t, http.MethodPost, "/api/classes", &api.CreateClassReq{TitleID: t2.TitleID, Name: "Semester 1"}, token, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var titles []*models.Title
	doJson(t, http.MethodGet, "/api/titles?name=m.t", nil, nil, &titles)
	require.Len(t, titles, 1)
	assert.Equal(t, t2.TitleID, titles[0].TitleID)

	var classes []*models.ClassWithTitle
	doJson(t, http.MethodGet, "/api/classes?titleId="+t1.TitleID.String(), nil, nil, &classes)
	assert.Len(t, classes, 2)

	classes = nil
	doJson(t, http.MethodGet, "/api/classes", nil, nil, &classes)
	assert.Len(t, classes, 3)

	classes = nil
	doJson(t, http.MethodGet, "/api/classes?titleId="+t1.TitleID.String()+"&name=2", nil, nil, &classes)
	require.Len(t, classes, 1)
	assert.Equal(t, "Semester 2", classes[0].Name)

	var one models.Title
	rr = doJson(t, http.MethodGet, "/api/titles?id="+t1.TitleID.String(), nil, nil, &one)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "B.Tech", one.Name)
}

func TestMyDetailApi(t *testing.T) {
	setupTest(t)
	token := login(t)

	rr := doJson(t, http.MethodGet, "/api/mydetail", nil, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{}`, rr.Body.String())

	var d models.MyDetail
	rr = doJson(t, http.MethodPost, "/api/mydetail", &api.MyDetailReq{Email: strPtr("me@example.com")}, token, &d)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "me@example.com", d.Email)

	rr = doJson(t, http.MethodPost, "/api/mydetail",
		&api.MyDetailReq{GithubLink: strPtr("https://github.com/someone")}, token, &d)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "me@example.com", d.Email)
	assert.Equal(t, "https://github.com/someone", d.GithubLink)

	rr = doJson(t, http.MethodPost, "/api/mydetail", &api.MyDetailReq{Email: strPtr("not-an-email")}, token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var got models.MyDetail
	doJson(t, http.MethodGet, "/api/mydetail", nil, nil, &got)
	assert.Equal(t, d.Email, got.Email)
	assert.Equal(t, d.GithubLink, got.GithubLink)
}
