package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMutatingRoutesRedirectAnonymousToLogin(t *testing.T) {
	app, _, _ := newApp(t, &stubProvider{})

	paths := []struct{ method, path string }{
		{"GET", "/categories/new"},
		{"POST", "/categories/new"},
		{"GET", "/categories/1/edit"},
		{"POST", "/categories/1/delete"},
		{"GET", "/categories/1/new"},
		{"POST", "/categories/1/2/edit"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		if p.method == "POST" {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		resp := testReq(app, req, t)
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("%s %s: expected redirect, got %d", p.method, p.path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/login" {
			t.Fatalf("%s %s: expected /login redirect, got %q", p.method, p.path, loc)
		}
	}
}

func TestNonOwnerEditIsSilentlyRedirectedHome(t *testing.T) {
	app, db, sessions := newApp(t, &stubProvider{})
	cookie := signIn(t, sessions, "sid-user2", 2)

	// Form view: user 2 asking for user 1's category edit form.
	req := httptest.NewRequest("GET", "/categories/1/edit", nil)
	req.AddCookie(cookie)
	resp := testReq(app, req, t)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("expected silent redirect to /, got %q", loc)
	}

	// Mutation attempt: no change may land.
	form := strings.NewReader("title=Hijacked")
	req = httptest.NewRequest("POST", "/categories/1/edit", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	resp = testReq(app, req, t)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("expected silent redirect to /, got %q", loc)
	}

	var title string
	if err := db.Get(&title, `SELECT title FROM categories WHERE id=1`); err != nil {
		t.Fatal(err)
	}
	if title != "Mobile" {
		t.Fatalf("category title changed by non-owner: %q", title)
	}
}

func TestNonOwnerDeleteLeavesCategoryAndItems(t *testing.T) {
	app, db, sessions := newApp(t, &stubProvider{})
	cookie := signIn(t, sessions, "sid-user2", 2)

	req := httptest.NewRequest("POST", "/categories/1/delete", nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	resp := testReq(app, req, t)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected silent redirect to /, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM items WHERE category_id=1`); err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("items vanished after denied delete: %d left", n)
	}
}

func TestOwnerDeleteCascades(t *testing.T) {
	app, db, sessions := newApp(t, &stubProvider{})
	cookie := signIn(t, sessions, "sid-user1", 1)

	req := httptest.NewRequest("POST", "/categories/1/delete", nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	resp := testReq(app, req, t)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM items WHERE category_id=1`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("cascade left %d items behind", n)
	}
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories WHERE id=1`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("category survived its own delete")
	}
}

func TestOwnerCreateAndEditFlow(t *testing.T) {
	app, db, sessions := newApp(t, &stubProvider{})
	cookie := signIn(t, sessions, "sid-user1", 1)

	// Create a category.
	form := strings.NewReader("title=Gaming")
	req := httptest.NewRequest("POST", "/categories/new", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	resp := testReq(app, req, t)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after create, got %d", resp.StatusCode)
	}

	var ownerID int64
	if err := db.Get(&ownerID, `SELECT user_id FROM categories WHERE title='Gaming'`); err != nil {
		t.Fatalf("created category missing: %v", err)
	}
	if ownerID != 1 {
		t.Fatalf("category owner is %d, want 1", ownerID)
	}

	// Empty title on create is rejected.
	req = httptest.NewRequest("POST", "/categories/new", strings.NewReader("title="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	resp = testReq(app, req, t)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty title, got %d", resp.StatusCode)
	}

	// Edit item 1 with an empty title: description changes, title stays.
	form = strings.NewReader("title=&description=updated+description")
	req = httptest.NewRequest("POST", "/categories/1/1/edit", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	resp = testReq(app, req, t)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after edit, got %d", resp.StatusCode)
	}

	var title, desc string
	if err := db.QueryRow(`SELECT title, description FROM items WHERE id=1`).Scan(&title, &desc); err != nil {
		t.Fatal(err)
	}
	if title != "Mobile company 0" {
		t.Fatalf("empty title overwrote the item: %q", title)
	}
	if desc != "updated description" {
		t.Fatalf("description not updated: %q", desc)
	}
}
