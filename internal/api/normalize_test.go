package api

import "testing"

func TestNormalizeBody_Precedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"plain text", `plain text error`, "plain text error"},
		{"json string", `"plain text error"`, "plain text error"},
		{"message field", `{"message": "Bad email"}`, "Bad email"},
		{"error field", `{"error": "forbidden"}`, "forbidden"},
		{"detail field", `{"detail": "not found"}`, "not found"},
		{"title field", `{"title": "Conflict"}`, "Conflict"},
		{"first non-empty wins", `{"message": "", "error": "second"}`, "second"},
		{"message beats errors", `{"message": "top", "errors": ["ignored"]}`, "top"},
		{"error list mixed", `{"errors": [{"message":"A"}, "B"]}`, "A, B"},
		{"error list detail", `{"errors": [{"detail":"bad scope"}]}`, "bad scope"},
		{"field map", `{"errors": {"first_name": ["Required"]}}`, "First Name: Required"},
		{"field map multiple msgs", `{"errors": {"email": ["Invalid", "Taken"]}}`, "Email: Invalid, Taken"},
		{"field map string value", `{"errors": {"last-name": "Required"}}`, "Last Name: Required"},
		{"non field errors", `{"non_field_errors": ["Too many attempts", "Try later"]}`, "Too many attempts, Try later"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := normalizeBody([]byte(tc.body))
			if !ok {
				t.Fatalf("expected a message for %q, got none", tc.body)
			}
			if got != tc.want {
				t.Fatalf("normalizeBody(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}

func TestNormalizeBody_FieldMapDeterministicOrder(t *testing.T) {
	body := `{"errors": {"last_name": ["Required"], "first_name": ["Required"]}}`
	want := "First Name: Required | Last Name: Required"
	for i := 0; i < 10; i++ {
		got, ok := normalizeBody([]byte(body))
		if !ok || got != want {
			t.Fatalf("iteration %d: got %q, want %q", i, got, want)
		}
	}
}

func TestNormalizeBody_NoMessage(t *testing.T) {
	for _, body := range []string{"", "   ", `{}`, `{"code": 12}`, `[1, 2]`, `{"errors": []}`} {
		if got, ok := normalizeBody([]byte(body)); ok {
			t.Fatalf("expected no message for %q, got %q", body, got)
		}
	}
}

func TestHumanizeFieldName(t *testing.T) {
	cases := map[string]string{
		"first_name":      "First Name",
		"last-name":       "Last Name",
		"email":           "Email",
		"date__of--birth": "Date Of Birth",
		"état_civil":      "État Civil",
	}
	for in, want := range cases {
		if got := humanizeFieldName(in); got != want {
			t.Fatalf("humanizeFieldName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorMessage_Pure(t *testing.T) {
	if got := ErrorMessage(nil); got != msgGeneric {
		t.Fatalf("nil error: got %q", got)
	}
	if got := ErrorMessage(&Error{Message: "boom"}); got != "boom" {
		t.Fatalf("api error: got %q", got)
	}
	if got := ErrorMessage(&Error{}); got != msgGeneric {
		t.Fatalf("empty api error: got %q", got)
	}
}
