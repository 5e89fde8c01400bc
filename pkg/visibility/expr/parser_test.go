package expr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-showif/pkg/visibility"
)

func TestParseRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want visibility.Rule
	}{
		{"enabled", visibility.ShowIf("enabled")},
		{"  !enabled ", visibility.ShowIfBool("enabled", false)},
		{"enabled:bool", visibility.ShowIf("enabled")},
		{"enabled == false", visibility.ShowIfBool("enabled", false)},
		{"enabled != true", visibility.ShowIfNotBool("enabled", true)},
		{"count == 5, 10, 15", visibility.ShowIfInt("count", 5, 10, 15)},
		{"count != -1", visibility.ShowIfNotInt("count", -1)},
		{"count>5", visibility.ShowIfGreater("count", 5)},
		{"count >= 5", visibility.ShowIfGreaterOrEqual("count", 5)},
		{"count < 5", visibility.ShowIfLess("count", 5)},
		{"count <= 5", visibility.ShowIfLessOrEqual("count", 5)},
		{"ratio == 0.5", visibility.ShowIfFloat("ratio", 0.5)},
		{"ratio == 1, 2.5", visibility.ShowIfFloat("ratio", 1, 2.5)},
		{"ratio:float > 1", visibility.ShowIfGreaterFloat("ratio", 1)},
		{`title == "Hello, world"`, visibility.ShowIfString("title", "Hello, world")},
		{`title == 'it\'s'`, visibility.ShowIfString("title", "it's")},
		{"title != draft, archived", visibility.ShowIfNotString("title", "draft", "archived")},
		{`code:string == 42`, visibility.ShowIfString("code", "42")},
		{`code == "42"`, visibility.ShowIfString("code", "42")},
		{"mode:enum == Fast, \"Slow\"", visibility.ShowIfEnum("mode", "Fast", "Slow")},
		{"mode:enum != Off", visibility.ShowIfNotEnum("mode", "Off")},
		{"mode == #0, #2", visibility.ShowIfEnumIndex("mode", 0, 2)},
		{"mode:enum != #1", visibility.ShowIfNotEnumIndex("mode", 1)},
		{"settings.items[2].enabled", visibility.ShowIf("settings.items[2].enabled")},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tc.text)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tc.text, err)
			}
			if diff := cmp.Diff(tc.want, got, cmp.AllowUnexported(visibility.Rule{}, visibility.ExpectedSet{})); diff != "" {
				t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.text, diff)
			}
		})
	}
}

func TestParseRejectsComposition(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"a && b",
		"a || b",
		"(a)",
		"count > 5 && enabled",
	} {
		_, err := Parse(text)
		if !errors.Is(err, ErrComposition) {
			t.Fatalf("Parse(%q) error = %v, want ErrComposition", text, err)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"",
		"   ",
		"count =",
		"count = 5",
		"count ==",
		"count == 5,",
		"count == 5 6",
		"count:int",
		"count:decimal == 5",
		"count:int == 2.5",
		"count:int == \"5\"",
		"flag:bool == yes",
		"mode:enum == #1, Fast",
		"mode == #x",
		`title == "unterminated`,
		"!",
		"!enabled == true",
		"== 5",
		"count == []",
		"count:int == [], 5",
	} {
		_, err := Parse(text)
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("Parse(%q) error = %v, want ErrSyntax", text, err)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	t.Parallel()

	rules := []visibility.Rule{
		visibility.ShowIf("enabled"),
		visibility.ShowIfBool("enabled", false),
		visibility.ShowIfNotBool("enabled", false),
		visibility.ShowIfInt("count", 5, 10, 15),
		visibility.ShowIfLessOrEqual("count", -3),
		visibility.ShowIfFloat("ratio", 1, 0.25, 1e6),
		visibility.ShowIfString("title", "Hello, \"world\"", "42", "true"),
		visibility.ShowIfEnum("mode", "Fast", "Slow"),
		visibility.ShowIfNotEnumIndex("mode", 0, 3),
		visibility.ShowIf("settings.items[2].enabled"),
		visibility.ShowIfInt("count"),
		visibility.ShowIfNotFloat("ratio"),
		visibility.ShowIfString("title"),
		visibility.ShowIfEnum("mode"),
	}

	for _, rule := range rules {
		text := Format(rule)
		got, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(Format(%s)) = %q returned error: %v", rule, text, err)
		}
		if diff := cmp.Diff(rule, got, cmp.AllowUnexported(visibility.Rule{}, visibility.ExpectedSet{})); diff != "" {
			t.Fatalf("round trip of %q mismatch (-want +got):\n%s", text, diff)
		}
	}
}

func TestFormatShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		want string
		rule visibility.Rule
	}{
		{"enabled", visibility.ShowIf("enabled")},
		{"!enabled", visibility.ShowIfBool("enabled", false)},
		{"count:int > 5", visibility.ShowIfGreater("count", 5)},
		{`mode:enum == "Fast"`, visibility.ShowIfEnum("mode", "Fast")},
		{"mode:enum != #1, #2", visibility.ShowIfNotEnumIndex("mode", 1, 2)},
		{`title:string == "a b"`, visibility.ShowIfString("title", "a b")},
	}
	for _, tc := range cases {
		if got := Format(tc.rule); got != tc.want {
			t.Fatalf("Format(%s) = %q, want %q", tc.rule, got, tc.want)
		}
	}
}

func TestFormatWithoutExpectedValues(t *testing.T) {
	t.Parallel()

	resolver := visibility.MapResolver{
		"count": visibility.IntField(3),
		"mode":  visibility.EnumField(0, "Off", "On"),
	}
	cases := []struct {
		want string
		rule visibility.Rule
	}{
		{"count:int == []", visibility.ShowIfInt("count")},
		{"count:int > []", visibility.NewRule("count", visibility.KindInt, visibility.Greater, visibility.Strings("3"))},
		{"mode:enum == []", visibility.ShowIfEnumIndex("mode")},
		{"mode:enum != []", visibility.NewRule("mode", visibility.KindEnum, visibility.NotEquals, visibility.Bools(true))},
	}
	for _, tc := range cases {
		text := Format(tc.rule)
		if text != tc.want {
			t.Fatalf("Format(%s) = %q, want %q", tc.rule, text, tc.want)
		}
		parsed, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", text, err)
		}
		want := visibility.Evaluate(tc.rule, "value", resolver)
		got := visibility.Evaluate(parsed, "value", resolver)
		if want.Reason != visibility.NoExpectedValues {
			t.Fatalf("expected %s to evaluate to noExpectedValues, got %v", tc.rule, want)
		}
		if got.Reason != want.Reason || got.State != want.State {
			t.Fatalf("Parse(%q) evaluates to %v, want %v", text, got, want)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustParse to panic")
		}
	}()
	MustParse("a && b")
}

func TestParsedRuleEvaluates(t *testing.T) {
	t.Parallel()

	resolver := visibility.MapResolver{
		"settings.mode":  visibility.EnumField(1, "Off", "Fast", "Slow"),
		"settings.count": visibility.IntField(12),
	}
	cases := map[string]visibility.State{
		"mode:enum == Fast, Slow": visibility.StateVisible,
		"mode == #0":              visibility.StateHidden,
		"count > 10":              visibility.StateVisible,
		"mode:enum == Paused":     visibility.StateError,
	}
	for text, want := range cases {
		got := visibility.Evaluate(MustParse(text), "settings.value", resolver)
		if got.State != want {
			t.Fatalf("%q = %v, want %v", text, got, want)
		}
	}
}
