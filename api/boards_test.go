package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"taskboard-api/domain"
)

func TestPostBoardCreates(t *testing.T) {
	e := echo.New()
	store := &mockStore{}
	req := jsonRequest(http.MethodPost, "/boards", `{"title":"  Work  "}`)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, testUser())

	if err := postBoard(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	created := store.insertedBoard
	if created == nil {
		t.Fatal("expected board to be persisted")
	}
	if created.Owner != ownerID {
		t.Fatalf("expected owner from auth context, got %q", created.Owner)
	}
	if created.Title != "Work" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}

	var resp domain.Board
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID == "" || resp.Title != "Work" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestPostBoardMissingTitle(t *testing.T) {
	cases := map[string]string{
		"absent":     `{}`,
		"empty":      `{"title":""}`,
		"whitespace": `{"title":"   "}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			store := &mockStore{}
			req := jsonRequest(http.MethodPost, "/boards", body)
			rec := httptest.NewRecorder()
			c := authedContext(e, req, rec, testUser())

			if err := postBoard(store)(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400 got %d", rec.Code)
			}
			if store.insertedBoard != nil {
				t.Fatal("expected no board to be persisted")
			}
		})
	}
}

func TestGetBoardsScopedToOwner(t *testing.T) {
	e := echo.New()
	store := &mockStore{boards: []domain.Board{{ID: parentID, Owner: ownerID, Title: "Work"}}}
	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, testUser())

	if err := getBoards(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if store.lastOwner != ownerID {
		t.Fatalf("expected fetch to be scoped to the caller, got %q", store.lastOwner)
	}
	var resp boardsResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Boards) != 1 || resp.Boards[0].Title != "Work" {
		t.Fatalf("unexpected boards: %#v", resp.Boards)
	}
}
