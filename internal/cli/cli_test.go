package cli

import (
	"bytes"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/billscan/internal/config"
	"github.com/mmynk/billscan/internal/session"
	"github.com/mmynk/billscan/internal/storage/sqlite"
)

const receiptText = "Pizza Margherita  12.50\n2 x 4.50   9.00\nSUBTOTAL\nTiramisu 6,00\n"

const planYAML = `
participants: [Alice, Bob, Charlie]
expected_total: 30.50
claims:
  - line: 0
    participants: [Alice, Bob]
  - line: 1
    participants: [Charlie]
  - line: 3
    participants: [Alice, Charlie]
    weights: {Alice: 2}
tip:
  mode: even
  amount: 3
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// --- parse ---

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "--tokens", writeFile(t, "r.txt", receiptText))
	if err != nil {
		t.Fatalf("parse failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Pizza Margherita", "12.50", "(no price)", "Tiramisu", "6.00", "27.50", "4.50 | 9.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseCommandStdin(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("Coffee 3.20\n"))
	cmd.SetArgs([]string{"parse", "-"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(out.String(), "Coffee") || !strings.Contains(out.String(), "3.20") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

// --- split ---

func TestSplitCommand(t *testing.T) {
	out, err := run(t, "split",
		"--receipt", writeFile(t, "r.txt", receiptText),
		"--plan", writeFile(t, "plan.yaml", planYAML))
	if err != nil {
		t.Fatalf("split failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Alice", "11.25", "Bob", "7.25", "Charlie", "12.00", "Tip", "Everything is accounted for"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSplitCommandWarnsOnUnclaimed(t *testing.T) {
	plan := "participants: [Alice]\nclaims:\n  - line: 0\n    participants: [Alice]\n"
	out, err := run(t, "split",
		"--receipt", writeFile(t, "r.txt", receiptText),
		"--plan", writeFile(t, "plan.yaml", plan))
	if err != nil {
		t.Fatalf("split failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Warning") || !strings.Contains(out, "unclaimed") {
		t.Errorf("expected reconciliation warning:\n%s", out)
	}
}

func TestPlanApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		want string
	}{
		{"duplicate participant", Plan{Participants: []string{"Ann", "Ann"}}, "participants"},
		{"unknown claimant", Plan{
			Participants: []string{"Ann"},
			Claims:       []PlanClaim{{Line: 0, Participants: []string{"Bob"}}},
		}, "line 0"},
		{"weight on missing claim", Plan{
			Participants: []string{"Ann", "Bob"},
			Claims:       []PlanClaim{{Line: 0, Participants: []string{"Ann"}, Weights: map[string]float64{"Bob": 2}}},
		}, "line 0"},
		{"bad tip mode", Plan{
			Participants: []string{"Ann"},
			Tip:          &PlanTip{Mode: "lavish", Amount: 1},
		}, "tip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New(0)
			sess.ParseText(receiptText)
			err := tt.plan.Apply(sess)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Apply error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

// --- scan ---

func TestParseCrop(t *testing.T) {
	got, err := parseCrop("10, 20, 300, 400")
	if err != nil {
		t.Fatalf("parseCrop failed: %v", err)
	}
	if want := image.Rect(10, 20, 310, 420); got != want {
		t.Errorf("parseCrop = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "0,0,0,10", "-1,0,5,5"} {
		if _, err := parseCrop(bad); err == nil {
			t.Errorf("parseCrop(%q) should fail", bad)
		}
	}
}

// --- serve ---

func TestServerHandler(t *testing.T) {
	cfg := config.Default()
	cfg.StaticPath = t.TempDir()
	if err := os.WriteFile(filepath.Join(cfg.StaticPath, "index.html"), []byte("<h1>billscan</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	sessions := session.NewManager(0)
	handler, err := newHandler(cfg, store, sessions, nil)
	if err != nil {
		t.Fatalf("newHandler failed: %v", err)
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	t.Run("static files", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
		if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
			t.Error("missing CORS header")
		}
	})

	t.Run("no fallback for unknown paths", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/anything")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, server.URL+"/billscan.v1.ReceiptService/ParseText", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("status = %d, want 204", resp.StatusCode)
		}
		if !strings.Contains(resp.Header.Get("Access-Control-Allow-Headers"), "Billscan-Session") {
			t.Errorf("allow headers = %q", resp.Header.Get("Access-Control-Allow-Headers"))
		}
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/metrics")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})

	t.Run("unknown procedure", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/billscan.v1.Nope/Call", "application/json", strings.NewReader("{}"))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("create session", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/billscan.v1.ReceiptService/CreateSession", "application/json", strings.NewReader("{}"))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if resp.Header.Get("Billscan-Session") == "" {
			t.Error("expected session header")
		}
		if sessions.Len() != 1 {
			t.Errorf("live sessions = %d, want 1", sessions.Len())
		}
	})
}

func TestServerHandlerWithoutStatic(t *testing.T) {
	cfg := config.Default()
	cfg.CORSOrigin = ""

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	handler, err := newHandler(cfg, store, session.NewManager(0), nil)
	if err != nil {
		t.Fatalf("newHandler failed: %v", err)
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS header set with no origin configured")
	}

	cfg.StaticPath = filepath.Join(t.TempDir(), "missing")
	if _, err := newHandler(cfg, store, session.NewManager(0), nil); err == nil {
		t.Error("expected error for missing static dir")
	}
}
