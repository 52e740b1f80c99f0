package service_test

import (
	"testing"

	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFormTags(t *testing.T) {
	testCases := []struct {
		name  string
		tags  []string
		valid bool
	}{
		{name: "no tags", tags: nil, valid: true},
		{name: "single", tags: []string{"space"}, valid: true},
		{name: "order does not matter", tags: []string{"health", "history"}, valid: true},
		{name: "duplicates are fine", tags: []string{"crime", "crime"}, valid: true},
		{name: "unknown tag", tags: []string{"space", "cooking"}, valid: false},
		{name: "case matters", tags: []string{"Space"}, valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.PostForm{Title: "t", Body: "b", Tags: tc.tags}.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			var fieldErrs service.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.True(t, fieldErrs.Has("tags"))
		})
	}
}

func TestPostFormRequiresTitleAndBody(t *testing.T) {
	err := service.PostForm{Title: "   ", Body: "\n"}.Validate()

	var fieldErrs service.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Title is required", fieldErrs["title"])
	assert.Equal(t, "Body is required", fieldErrs["body"])
	assert.Contains(t, err.Error(), "body: Body is required")
}

func TestPostFormFromCopiesTags(t *testing.T) {
	post := model.Post{Title: "a", Body: "b", Tags: []string{"space"}}
	form := service.PostFormFrom(post)
	form.Tags[0] = "crime"

	assert.Equal(t, "space", post.Tags[0])
	assert.True(t, form.HasTag("crime"))
}

func TestLoginForm(t *testing.T) {
	assert.NoError(t, service.LoginForm{Email: "ada@example.com", Password: "secret"}.Validate())

	var fieldErrs service.FieldErrors
	require.ErrorAs(t, service.LoginForm{Email: "ada", Password: "12345"}.Validate(), &fieldErrs)
	assert.True(t, fieldErrs.Has("email"))
	assert.Equal(t, "Password must be at least 6 characters long", fieldErrs["password"])
}

func TestRegisterForm(t *testing.T) {
	valid := service.RegisterForm{Username: "ada", Email: "ada@example.com", Password: "secret", Role: "admin"}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.Role = "moderator"
	invalid.Username = " "

	var fieldErrs service.FieldErrors
	require.ErrorAs(t, invalid.Validate(), &fieldErrs)
	assert.True(t, fieldErrs.Has("role"))
	assert.True(t, fieldErrs.Has("username"))
	assert.False(t, fieldErrs.Has("email"))
}

func TestToggleTag(t *testing.T) {
	selected := []string{"space"}

	added := service.ToggleTag(selected, "history")
	assert.Equal(t, []string{"space", "history"}, added)
	assert.Equal(t, []string{"space"}, selected)

	assert.Equal(t, []string{"history"}, service.ToggleTag(added, "space"))
	assert.Equal(t, []string{"space"}, service.ToggleTag(selected, "cooking"))
	assert.Equal(t, []string{}, service.ToggleTag(nil, "cooking"))
}

func TestFilterTags(t *testing.T) {
	assert.Equal(t, []string{"american", "fiction"}, service.FilterTags("IC"))
	assert.Equal(t, model.AllowedTags, service.FilterTags(""))
	assert.Empty(t, service.FilterTags("zzz"))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, service.ParsePage(""))
	assert.Equal(t, 1, service.ParsePage("abc"))
	assert.Equal(t, 1, service.ParsePage("0"))
	assert.Equal(t, 1, service.ParsePage("-4"))
	assert.Equal(t, 3, service.ParsePage("3"))
}

func TestPageLinks(t *testing.T) {
	assert.Equal(t, []int{}, service.PageLinks(0))
	assert.Equal(t, []int{1}, service.PageLinks(1))
	assert.Equal(t, []int{1, 2, 3}, service.PageLinks(3))
}
