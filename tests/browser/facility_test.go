package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestFacility_CreateAppearsOnBoard creates a facility through the admin
// form and checks it shows up on the queue board with template defaults.
func TestFacility_CreateAppearsOnBoard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.loginAdmin(t, page)

	if _, err := page.Goto(app.BaseURL + "/admin/facilities"); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}

	if err := page.Locator("input[name=Name]").Fill("Library Reading Room"); err != nil {
		t.Fatalf("failed to fill name: %v", err)
	}
	if err := page.Locator("input[name=Capacity]").Fill("60"); err != nil {
		t.Fatalf("failed to fill capacity: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit: %v", err)
	}

	if err := page.WaitForURL(app.BaseURL+"/?view=admin", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("create did not redirect to the admin dashboard: %v", err)
	}

	body, err := page.Locator("body").TextContent()
	if err != nil {
		t.Fatalf("failed to read page: %v", err)
	}
	if !strings.Contains(body, "Library Reading Room") {
		t.Error("new facility missing from the dashboard")
	}
	if !strings.Contains(body, "0 / 60") {
		t.Error("new facility should start empty at the given capacity")
	}
}

// TestFacility_DuplicateNameRejected verifies the form re-renders with an
// error when the name collides with a seeded facility.
func TestFacility_DuplicateNameRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.loginAdmin(t, page)

	if _, err := page.Goto(app.BaseURL + "/admin/facilities"); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	page.Locator("input[name=Name]").Fill("Food Sutra Mess Hall")
	page.Locator("button[type=submit]").Click()

	if err := page.Locator(".error").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("expected an error for the duplicate name: %v", err)
	}
}

// TestFacility_StudentBlockedFromForm verifies the role gate on the admin
// facility form.
func TestFacility_StudentBlockedFromForm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.loginStudent(t, page)

	resp, err := page.Goto(app.BaseURL + "/admin/facilities")
	if err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	if resp.Status() != 403 {
		t.Errorf("student on /admin/facilities got status %d, want 403", resp.Status())
	}
}
