package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/BloggingApp/post-web/internal/model"
)

const minPasswordLength = 6

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, field+": "+e[field])
	}
	return "invalid form: " + strings.Join(msgs, ", ")
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

type PostForm struct {
	Title string
	Body  string
	Tags  []string
}

func PostFormFrom(post model.Post) PostForm {
	tags := make([]string, len(post.Tags))
	copy(tags, post.Tags)
	return PostForm{
		Title: post.Title,
		Body:  post.Body,
		Tags:  tags,
	}
}

// Validate checks the form before anything is sent. Tag order and
// duplicates do not matter.
func (f PostForm) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(f.Body) == "" {
		errs["body"] = "Body is required"
	}
	for _, tag := range f.Tags {
		if !model.IsAllowedTag(tag) {
			errs["tags"] = "Unknown tag: " + tag
			break
		}
	}
	return errs.orNil()
}

func (f PostForm) normalized() PostForm {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostForm{
		Title: strings.TrimSpace(f.Title),
		Body:  strings.TrimSpace(f.Body),
		Tags:  tags,
	}
}

func (f PostForm) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Validate() error {
	errs := FieldErrors{}
	if !emailRegexp.MatchString(strings.TrimSpace(f.Email)) {
		errs["email"] = "Invalid email address"
	}
	if len(f.Password) < minPasswordLength {
		errs["password"] = "Password must be at least 6 characters long"
	}
	return errs.orNil()
}

type RegisterForm struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (f RegisterForm) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Username) == "" {
		errs["username"] = "Username is required"
	}
	if !emailRegexp.MatchString(strings.TrimSpace(f.Email)) {
		errs["email"] = "Invalid email address"
	}
	if len(f.Password) < minPasswordLength {
		errs["password"] = "Password must be at least 6 characters long"
	}
	if !model.Role(f.Role).Valid() {
		errs["role"] = "Role must be user or admin"
	}
	return errs.orNil()
}

// ToggleTag adds tag to selected, or removes it when already present.
// Tags outside the vocabulary are ignored. selected is not modified.
func ToggleTag(selected []string, tag string) []string {
	result := make([]string, 0, len(selected)+1)
	found := false
	for _, t := range selected {
		if t == tag {
			found = true
			continue
		}
		result = append(result, t)
	}
	if !found && model.IsAllowedTag(tag) {
		result = append(result, tag)
	}
	return result
}

// FilterTags returns the vocabulary entries containing query, ignoring case.
func FilterTags(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]string, 0, len(model.AllowedTags))
	for _, tag := range model.AllowedTags {
		if strings.Contains(tag, query) {
			result = append(result, tag)
		}
	}
	return result
}
