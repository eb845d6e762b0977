package handlers_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func requireMongo(t *testing.T, env *testEnv) {
	t.Helper()

	if env.mongo.Client == nil {
		t.Skip("TEST_MONGO_URI not set, skipping remark suite")
	}
}

func (env *testEnv) doForm(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) doMultipart(t *testing.T, method, path, token, comment, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if comment != "" {
		if err := writer.WriteField("comment", comment); err != nil {
			t.Fatalf("write comment field: %v", err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)

	if err != nil {
		t.Fatalf("create form file: %v", err)
	}

	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file content: %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestRemarkLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	requireMongo(t, env)

	manager := bearerFor(t, env.managerID)
	dev := bearerFor(t, env.devID)

	taskID := env.createTask(t, manager, "remarkable work", env.devID, env.managerID)
	remarksPath := fmt.Sprintf("/api/tasks/%d/remarks", taskID)

	// Empty comment is rejected.
	w := env.doForm(t, http.MethodPost, remarksPath+"?role=Developer", dev, url.Values{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty comment: %d, want 400", w.Code)
	}

	// Remarks attach to existing tasks only.
	w = env.doForm(t, http.MethodPost, "/api/tasks/99999/remarks?role=Developer", dev, url.Values{
		"comment": {"ghost task"},
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("remark on missing task: %d, want 404", w.Code)
	}

	w = env.doForm(t, http.MethodPost, remarksPath+"?role=Developer", dev, url.Values{
		"comment": {"started looking into the flaky import"},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("create remark: %d %s", w.Code, w.Body.String())
	}

	created := decode(t, w)["remark"].(map[string]interface{})
	remarkID := created["id"].(string)

	if created["role"] != "Developer" || uint(created["created_by"].(float64)) != env.devID {
		t.Fatalf("remark attribution = %v", created)
	}

	w = env.doRequest(t, http.MethodGet, remarksPath, dev, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("list remarks: %d %s", w.Code, w.Body.String())
	}

	// Only the author or an Admin may touch it.
	w = env.doForm(t, http.MethodPut, "/api/remarks/"+remarkID, manager, url.Values{
		"comment": {"rewritten by someone else"},
	})

	if w.Code != http.StatusForbidden {
		t.Fatalf("non-author update: %d, want 403", w.Code)
	}

	w = env.doForm(t, http.MethodPut, "/api/remarks/"+remarkID, dev, url.Values{
		"comment": {"root cause found"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("author update: %d %s", w.Code, w.Body.String())
	}

	updated := decode(t, w)["remark"].(map[string]interface{})

	if updated["comment"] != "root cause found" {
		t.Fatalf("updated comment = %v", updated["comment"])
	}

	if updated["updated_at"] == nil {
		t.Fatal("update must stamp updated_at")
	}

	// An update with nothing in it is rejected.
	w = env.doForm(t, http.MethodPut, "/api/remarks/"+remarkID, dev, url.Values{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty update: %d, want 400", w.Code)
	}

	// Admin may delete without being the author.
	w = env.doRequest(t, http.MethodDelete, "/api/remarks/"+remarkID, bearerFor(t, env.adminID), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("admin delete: %d %s", w.Code, w.Body.String())
	}

	w = env.doRequest(t, http.MethodDelete, "/api/remarks/"+remarkID, dev, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("deleting twice: %d, want 404", w.Code)
	}
}

func TestRemarkAttachmentRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	requireMongo(t, env)

	manager := bearerFor(t, env.managerID)
	dev := bearerFor(t, env.devID)

	taskID := env.createTask(t, manager, "attachment carrier", env.devID, env.managerID)
	content := []byte("stack trace from the failing run\n")

	w := env.doMultipart(t, http.MethodPost,
		fmt.Sprintf("/api/tasks/%d/remarks?role=Developer", taskID),
		dev, "see attached trace", "trace.log", content)

	if w.Code != http.StatusCreated {
		t.Fatalf("create remark with file: %d %s", w.Code, w.Body.String())
	}

	remark := decode(t, w)["remark"].(map[string]interface{})
	fileID := remark["file_id"].(string)

	if remark["file_name"] != "trace.log" || fileID == "" {
		t.Fatalf("attachment metadata = %v", remark)
	}

	w = env.doRequest(t, http.MethodGet, "/api/files/"+fileID, dev, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("download: %d %s", w.Code, w.Body.String())
	}

	downloaded, err := io.ReadAll(w.Body)

	if err != nil {
		t.Fatalf("read download: %v", err)
	}

	if !bytes.Equal(downloaded, content) {
		t.Fatalf("downloaded %q, want %q", downloaded, content)
	}

	if disposition := w.Header().Get("Content-Disposition"); !strings.Contains(disposition, "trace.log") {
		t.Fatalf("Content-Disposition = %q", disposition)
	}

	// Deleting the remark takes the blob with it.
	remarkID := remark["id"].(string)

	w = env.doRequest(t, http.MethodDelete, "/api/remarks/"+remarkID, dev, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("delete remark: %d %s", w.Code, w.Body.String())
	}

	w = env.doRequest(t, http.MethodGet, "/api/files/"+fileID, dev, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("blob survived the remark delete: %d", w.Code)
	}
}
