package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/example/anihub/internal/blob"
	"github.com/example/anihub/internal/platform/auth"
	"github.com/example/anihub/internal/platform/signing"
	"github.com/example/anihub/internal/store"
)

type episodeFixture struct {
	blobs   *blob.MemoryStore
	h       Episodes
	animeID string
}

func newEpisodeFixture(t *testing.T) episodeFixture {
	t.Helper()

	animes := store.NewInMemoryAnimeStore()
	a, err := animes.Create(context.Background(), store.Anime{TitleEnglish: "Lain"})
	if err != nil {
		t.Fatalf("create anime: %v", err)
	}

	blobs := blob.NewMemoryStore()
	h := Episodes{
		Store:      store.NewInMemoryEpisodeStore(),
		Animes:     animes,
		Blobs:      blobs,
		Signer:     signing.New("episodes-test-secret"),
		StreamPath: "/v1/stream",
	}
	return episodeFixture{blobs: blobs, h: h, animeID: a.ID}
}

func (f episodeFixture) addEpisode(t *testing.T, number int) store.Episode {
	t.Helper()
	e, err := f.h.Store.Create(context.Background(), store.Episode{AnimeID: f.animeID, Number: number})
	if err != nil {
		t.Fatalf("create episode: %v", err)
	}
	return e
}

// multipartReq builds a multipart upload request with a single file field.
func multipartReq(t *testing.T, url, field, filename, content string, params map[string]string, userID string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = auth.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

func TestCreateEpisode_DuplicateNumberRejected(t *testing.T) {
	f := newEpisodeFixture(t)
	params := map[string]string{"animeId": f.animeID}

	rr := do(f.h.Create, setupReq(http.MethodPost, "/episodes", `{"number":1,"title":"Weird"}`, params, "admin-1"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(f.h.Create, setupReq(http.MethodPost, "/episodes", `{"number":1}`, params, "admin-1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a duplicate number, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Message != "this anime already has an episode with that number." {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	rr = do(f.h.Create, setupReq(http.MethodPost, "/episodes", `{"number":0}`, params, "admin-1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-positive number, got %d", rr.Code)
	}
}

func TestEpisodeUnderDifferentAnimeIs404(t *testing.T) {
	f := newEpisodeFixture(t)
	e := f.addEpisode(t, 1)

	rr := do(f.h.Update, setupReq(http.MethodPatch, "/episode", `{"title":"x"}`,
		map[string]string{"animeId": "some-other-anime", "episodeId": e.ID}, "admin-1"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a cross-anime episode, got %d", rr.Code)
	}
}

func TestUploadVideoAndStream_Roundtrip(t *testing.T) {
	f := newEpisodeFixture(t)
	e := f.addEpisode(t, 1)
	params := map[string]string{"animeId": f.animeID, "episodeId": e.ID}

	rr := do(f.h.UploadVideo, multipartReq(t, "/video", "video", "ep1.mp4", "fake video bytes", params, "admin-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var view struct {
		store.Episode
		PlaybackURL string `json:"playbackUrl"`
	}
	dataField(t, rr, "episode", &view)
	if view.VideoKey != "episodes/"+e.ID+"/source.mp4" {
		t.Fatalf("unexpected video key %q", view.VideoKey)
	}
	if view.PlaybackURL == "" {
		t.Fatal("expected a playback URL for the uploader")
	}
	if f.blobs.Len() != 1 {
		t.Fatalf("expected one stored blob, got %d", f.blobs.Len())
	}

	// the signed URL streams the stored bytes back
	u, err := url.Parse(view.PlaybackURL)
	if err != nil {
		t.Fatalf("parse playback url: %v", err)
	}
	rr = do(f.h.Stream, httptest.NewRequest(http.MethodGet, "/v1/stream?"+u.RawQuery, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "fake video bytes" {
		t.Fatalf("streamed bytes do not match the upload: %q", rr.Body.String())
	}
}

func TestStream_RejectsBadTokens(t *testing.T) {
	f := newEpisodeFixture(t)

	rr := do(f.h.Stream, httptest.NewRequest(http.MethodGet, "/v1/stream", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a token, got %d", rr.Code)
	}

	rr = do(f.h.Stream, httptest.NewRequest(http.MethodGet,
		"/v1/stream?key=episodes/x/source.mp4&uid=u1&exp=999999999999&sig=forged", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a forged signature, got %d", rr.Code)
	}
}

func TestListEpisodes_PlaybackURLOnlyForViewers(t *testing.T) {
	f := newEpisodeFixture(t)
	e := f.addEpisode(t, 1)
	if err := f.h.Store.SetVideoKey(context.Background(), e.ID, "episodes/"+e.ID+"/source.mp4"); err != nil {
		t.Fatalf("set video key: %v", err)
	}
	params := map[string]string{"animeId": f.animeID}

	playbackURLs := func(rr *httptest.ResponseRecorder) []string {
		var views []struct {
			PlaybackURL string `json:"playbackUrl"`
		}
		dataField(t, rr, "episodes", &views)
		urls := make([]string, 0, len(views))
		for _, v := range views {
			urls = append(urls, v.PlaybackURL)
		}
		return urls
	}

	// anonymous: no playback URL
	rr := do(f.h.List, setupReq(http.MethodGet, "/episodes", "", params, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if urls := playbackURLs(rr); len(urls) != 1 || urls[0] != "" {
		t.Fatalf("anonymous viewers must not get playback URLs: %v", urls)
	}

	// signed-in viewer: personalized URL
	rr = do(f.h.List, setupReq(http.MethodGet, "/episodes", "", params, "viewer-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	urls := playbackURLs(rr)
	if len(urls) != 1 || urls[0] == "" {
		t.Fatalf("expected a playback URL for a signed-in viewer: %v", urls)
	}
	if !strings.Contains(urls[0], "uid=viewer-1") {
		t.Fatalf("playback URL must be bound to the viewer: %q", urls[0])
	}
}

func TestDeleteEpisode_RemovesStoredVideo(t *testing.T) {
	f := newEpisodeFixture(t)
	e := f.addEpisode(t, 1)
	params := map[string]string{"animeId": f.animeID, "episodeId": e.ID}

	rr := do(f.h.UploadVideo, multipartReq(t, "/video", "video", "ep1.mp4", "bytes", params, "admin-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d", rr.Code)
	}

	rr = do(f.h.Delete, setupReq(http.MethodDelete, "/episode", "", params, "admin-1"))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if f.blobs.Len() != 0 {
		t.Fatalf("expected the blob to be removed, found %d", f.blobs.Len())
	}
}
