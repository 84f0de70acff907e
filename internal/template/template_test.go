package template

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/mtlprog/bison-admin/internal/form"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/mtlprog/bison-admin/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageData struct {
	Title   string
	Login   model.LoginInfo
	Tab     string
	ShowLog bool
	Notice  string
	Config  *view.ConfigPage
	Error   string
}

type modalData struct {
	ID   string
	Form form.View
}

func TestChipClass(t *testing.T) {
	tests := []struct {
		kind     view.ChipKind
		expected string
	}{
		{view.ChipValue, "chip chip-green"},
		{view.ChipAll, "chip chip-blue"},
		{view.ChipUnsupported, "chip chip-red"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, chipClass(tt.kind))
		})
	}
}

func TestFormPath(t *testing.T) {
	formPath := funcMap["formPath"].(func(string, string) string)

	assert.Equal(t, "/subs/new/abc/target", formPath("abc", "target"))
	assert.Equal(t, "/subs/new/a%2Fb/submit", formPath("a/b", "submit"))
}

func TestTagVals(t *testing.T) {
	tagVals := funcMap["tagVals"].(func(string, string) string)

	tests := []struct {
		name     string
		action   string
		tag      string
		expected string
	}{
		{"add without tag", "add", "", `{"action":"add"}`},
		{"remove tag", "remove", "event", `{"action":"remove","tag":"event"}`},
		{"quotes are escaped", "remove", `a"b`, `{"action":"remove","tag":"a\"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tagVals(tt.action, tt.tag))
		})
	}
}

func TestMarkdown(t *testing.T) {
	markdown := funcMap["markdown"].(func(string) template.HTML)

	t.Run("renders emphasis and links", func(t *testing.T) {
		out := string(markdown("**Maintenance** at [status](https://status.example.com)"))
		assert.Contains(t, out, "<strong>Maintenance</strong>")
		assert.Contains(t, out, `href="https://status.example.com"`)
		assert.Contains(t, out, `target="_blank"`)
	})

	t.Run("strips scripts", func(t *testing.T) {
		out := string(markdown("hello <script>alert(1)</script>"))
		assert.NotContains(t, out, "<script>")
	})
}

func TestNew(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)
	require.NotNil(t, tmpl)

	assert.Contains(t, tmpl.pages, "config.html")
	assert.Contains(t, tmpl.pages, "log.html")
	assert.Contains(t, tmpl.pages, "login.html")
	assert.NotNil(t, tmpl.fragments.Lookup("modal"))
	assert.NotNil(t, tmpl.fragments.Lookup("card"))
}

func TestRender(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	login := model.LoginInfo{Type: model.LoginAdmin, Name: "doctor", Token: "jwt"}

	t.Run("unknown template returns error", func(t *testing.T) {
		var buf bytes.Buffer
		err := tmpl.Render(&buf, "nonexistent.html", nil)
		assert.ErrorContains(t, err, "template nonexistent.html not found")
	})

	t.Run("empty config shows placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		err := tmpl.Render(&buf, "config.html", pageData{
			Title:  "Subscriptions",
			Login:  login,
			Tab:    "manage",
			Config: &view.ConfigPage{},
		})
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "No subscriptions yet.")
		assert.NotContains(t, output, "collapse-panel")
		assert.Contains(t, output, "doctor")
	})

	t.Run("config renders one section per group", func(t *testing.T) {
		page := view.ConfigPage{Groups: []view.Group{
			{
				Key: "123456", Name: "Lounge", Title: "123456 - Lounge",
				Cards: []view.Card{{
					Key: "weibo-1", Title: "Weibo - Arknights",
					Categories: []view.Chip{{Kind: view.ChipValue, Label: "posts"}},
					Tags:       []view.Chip{{Kind: view.ChipAll, Label: view.LabelAllTags}},
				}},
			},
			{Key: "654321", Name: "Other", Title: "654321 - Other"},
		}}

		var buf bytes.Buffer
		err := tmpl.Render(&buf, "config.html", pageData{Title: "Subscriptions", Login: login, Config: &page})
		require.NoError(t, err)

		output := buf.String()
		assert.Equal(t, 2, strings.Count(output, `class="collapse-panel"`))
		assert.Less(t, strings.Index(output, "123456 - Lounge"), strings.Index(output, "654321 - Other"))
		assert.Contains(t, output, "Weibo - Arknights")
		assert.Contains(t, output, `<span class="chip chip-green">posts</span>`)
		assert.Contains(t, output, `<span class="chip chip-blue">all tags</span>`)
		assert.Contains(t, output, "/subs/new?group=123456")
		assert.Equal(t, 2, strings.Count(output, `type="button" onclick="event.preventDefault()"`),
			"add button must not toggle its group")
		assert.NotContains(t, output, "No subscriptions yet.")
	})

	t.Run("error message is shown", func(t *testing.T) {
		var buf bytes.Buffer
		err := tmpl.Render(&buf, "config.html", pageData{Login: login, Error: "Failed to fetch subscriptions"})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Failed to fetch subscriptions")
	})

	t.Run("logs menu only for admins", func(t *testing.T) {
		var buf bytes.Buffer
		err := tmpl.Render(&buf, "log.html", pageData{Login: login, Tab: "log", ShowLog: true})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `href="/?tab=log"`)

		buf.Reset()
		user := model.LoginInfo{Type: model.LoginUser, Name: "u", Token: "t"}
		err = tmpl.Render(&buf, "config.html", pageData{Login: user, Config: &view.ConfigPage{}})
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), `href="/?tab=log"`)
	})

	t.Run("login page without menu", func(t *testing.T) {
		var buf bytes.Buffer
		err := tmpl.Render(&buf, "login.html", pageData{Title: "Login", Error: "link expired"})
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "You are not logged in")
		assert.Contains(t, output, "link expired")
		assert.NotContains(t, output, "/logout")
	})

	t.Run("notice is rendered as markdown", func(t *testing.T) {
		var buf bytes.Buffer
		err := tmpl.Render(&buf, "login.html", pageData{Notice: "*heads up*"})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "<em>heads up</em>")
	})
}

func TestRenderFragment(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	t.Run("unknown fragment returns error", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, tmpl.RenderFragment(&buf, "nope", nil))
	})

	t.Run("open modal", func(t *testing.T) {
		v := form.View{
			Group: "123456",
			State: form.StateOpen,
			Platforms: []form.PlatformOption{
				{Key: "arknights", Name: "Arknights"},
				{Key: "weibo", Name: "Weibo", Selected: true},
			},
			Platform:          "weibo",
			Target:            "6279793937",
			TargetName:        "Arknights",
			TargetStatus:      form.TargetValid,
			TargetPlaceholder: form.PlaceholderTarget,
			Categories: []form.CategoryOption{
				{ID: 1, Label: "posts", Selected: true},
				{ID: 2, Label: "reposts"},
			},
			CategoryPlaceholder: form.PlaceholderCategories,
			Tags:                []string{"event"},
		}

		var buf bytes.Buffer
		require.NoError(t, tmpl.RenderFragment(&buf, "modal", modalData{ID: "f1", Form: v}))

		output := buf.String()
		assert.Contains(t, output, "Add subscription to 123456")
		assert.Contains(t, output, `<option value="weibo" selected>Weibo</option>`)
		assert.Contains(t, output, `value="6279793937"`)
		assert.Contains(t, output, `value="Arknights"`)
		assert.Contains(t, output, `<option value="1" selected>posts</option>`)
		assert.Contains(t, output, `hx-post="/subs/new/f1/target"`)
		assert.Contains(t, output, ">event")
		assert.Contains(t, output, ">OK<")
		assert.NotContains(t, output, "all tags")
	})

	t.Run("validation errors and loading", func(t *testing.T) {
		v := form.View{
			State:              form.StateSubmitting,
			PlatformErr:        form.MsgPlatformRequired,
			TargetErr:          form.MsgTargetNotFound,
			TargetDisabled:     true,
			TargetPlaceholder:  form.PlaceholderChoosePlatform,
			CategoriesDisabled: true,
			AllTags:            true,
			TagsDisabled:       true,
			Loading:            true,
		}

		var buf bytes.Buffer
		require.NoError(t, tmpl.RenderFragment(&buf, "modal", modalData{ID: "f2", Form: v}))

		output := buf.String()
		assert.Contains(t, output, form.MsgPlatformRequired)
		assert.Contains(t, output, form.MsgTargetNotFound)
		assert.Contains(t, output, "Saving…")
		assert.Contains(t, output, "tags not supported")
	})

	t.Run("closed modal renders nothing", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tmpl.RenderFragment(&buf, "modal", modalData{ID: "f3", Form: form.View{State: form.StateSubmitted}}))
		assert.Empty(t, strings.TrimSpace(buf.String()))
	})
}
