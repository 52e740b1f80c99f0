package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/BloggingApp/post-web/internal/client"
	"github.com/BloggingApp/post-web/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Modal int

const (
	ModalNone Modal = iota
	ModalCreate
	ModalEdit
	ModalDelete
)

func (m Modal) String() string {
	switch m {
	case ModalCreate:
		return "create"
	case ModalEdit:
		return "edit"
	case ModalDelete:
		return "delete"
	}
	return ""
}

func ParseModal(s string) Modal {
	switch s {
	case "create":
		return ModalCreate
	case "edit":
		return ModalEdit
	case "delete":
		return ModalDelete
	}
	return ModalNone
}

// ListView is what one load of the posts view fetched. Admin views fill all
// three parts; a failed part stays nil and its error is kept in Errors.
type ListView struct {
	Page     int
	Posts    *model.PagedPosts
	MyPosts  *model.PagedPosts
	Accounts []model.Account
	Errors   []error
}

func (v *ListView) TotalAccounts() int {
	return len(v.Accounts)
}

func (v *ListView) TotalPosts() int {
	if v.Posts == nil {
		return 0
	}
	return v.Posts.TotalPosts
}

func (v *ListView) MyPostCount() int {
	if v.MyPosts == nil {
		return 0
	}
	return v.MyPosts.TotalPosts
}

func (v *ListView) Empty() bool {
	return v.Posts == nil || len(v.Posts.Data) == 0
}

// Err summarizes the fetch errors. A 401 anywhere means the session is over.
func (v *ListView) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}
	for _, err := range v.Errors {
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrRequestFailed, errors.Join(v.Errors...))
}

func (v *ListView) addError(err error) {
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
}

func (v *ListView) find(id string) (*model.Post, bool) {
	if post, ok := v.Posts.FindByID(id); ok {
		return post, true
	}
	return v.MyPosts.FindByID(id)
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Role         model.Role
	Page         int
	View         *ListView
	PageLinks    []int
	Modal        Modal
	Current      *model.Post
	CreateForm   PostForm
	CreateErrors FieldErrors
	EditForm     PostForm
	EditErrors   FieldErrors
	Submitting   bool
}

// Controller drives the posts view of one session: paging, the three modals
// and refetching after mutations.
type Controller struct {
	logger *zap.Logger
	posts  Post
	token  string
	role   model.Role

	mu         sync.Mutex
	page       int
	view       *ListView
	stale      bool
	closed     bool
	generation uint64
	submitting bool
	modal      Modal
	current    *model.Post
	createForm PostForm
	createErrs FieldErrors
	editForm   PostForm
	editErrs   FieldErrors
}

func NewController(logger *zap.Logger, posts Post, state SessionState) *Controller {
	return &Controller{
		logger: logger,
		posts:  posts,
		token:  state.Token,
		role:   state.Role,
		page:   1,
		view:   &ListView{Page: 1},
		stale:  true,
	}
}

// Load fetches the current page. A result is dropped when the view was
// closed or another load started meanwhile.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrViewClosed
	}
	c.generation++
	generation := c.generation
	page := c.page
	c.mu.Unlock()

	view := c.fetch(ctx, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrViewClosed
	}
	if generation != c.generation {
		return nil
	}
	c.view = view
	c.stale = false

	return view.Err()
}

func (c *Controller) fetch(ctx context.Context, page int) *ListView {
	view := &ListView{Page: page}

	switch c.role {
	case model.RoleUser:
		limit := UserPageSize
		posts, err := c.posts.ListMine(ctx, c.token, page, &limit)
		view.Posts = posts
		view.addError(err)
	case model.RoleAdmin:
		var g errgroup.Group
		var allErr, mineErr, accErr error
		g.Go(func() error {
			view.Posts, allErr = c.posts.ListAll(ctx, c.token, page, AdminPageSize)
			return allErr
		})
		g.Go(func() error {
			view.MyPosts, mineErr = c.posts.ListMine(ctx, c.token, page, nil)
			return mineErr
		})
		g.Go(func() error {
			view.Accounts, accErr = c.posts.ListAccounts(ctx, c.token)
			return accErr
		})
		_ = g.Wait()

		view.addError(allErr)
		view.addError(mineErr)
		view.addError(accErr)
	default:
		c.logger.Sugar().Infof("No posts view for role %q", c.role)
	}

	return view
}

// GoToPage moves to page and loads it. Pages below 1 mean page 1.
func (c *Controller) GoToPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.page = page
	c.stale = true
	c.mu.Unlock()

	return c.Load(ctx)
}

// Invalidate marks the loaded data as outdated; the next View refetches.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// View returns the loaded data, refetching first when it is stale.
func (c *Controller) View(ctx context.Context) (*ListView, error) {
	c.mu.Lock()
	stale := c.stale
	view := c.view
	c.mu.Unlock()

	if !stale {
		return view, view.Err()
	}

	err := c.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.view, err
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.page
}

func (c *Controller) PageLinks() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pageLinksLocked()
}

func (c *Controller) pageLinksLocked() []int {
	if c.view == nil || c.view.Posts == nil {
		return []int{}
	}
	return PageLinks(c.view.Posts.TotalPages)
}

// Close stops the controller from accepting load results.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.mu.Unlock()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		Role:         c.role,
		Page:         c.page,
		View:         c.view,
		PageLinks:    c.pageLinksLocked(),
		Modal:        c.modal,
		CreateForm:   c.createForm,
		CreateErrors: c.createErrs,
		EditForm:     c.editForm,
		EditErrors:   c.editErrs,
		Submitting:   c.submitting,
	}
	if c.current != nil {
		current := *c.current
		snapshot.Current = &current
	}
	return snapshot
}

func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.modal = ModalCreate
	c.createErrs = nil
}

// SubmitCreate validates form and creates the post. On failure the modal
// stays open with the input kept.
func (c *Controller) SubmitCreate(ctx context.Context, form PostForm) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.modal = ModalCreate
	c.createForm = form
	c.createErrs = nil
	if err := form.Validate(); err != nil {
		c.createErrs = asFieldErrors(err)
		c.mu.Unlock()
		return err
	}
	c.submitting = true
	c.mu.Unlock()
	defer c.endSubmit()

	form = form.normalized()
	if _, err := c.posts.Create(ctx, c.token, form.Title, form.Body, form.Tags); err != nil {
		return Classify(err)
	}

	c.mu.Lock()
	c.modal = ModalNone
	c.createForm = PostForm{}
	c.stale = true
	c.mu.Unlock()

	return nil
}

// Draft replaces the input of the open create or edit modal without
// submitting it.
func (c *Controller) Draft(form PostForm) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.modal {
	case ModalCreate:
		c.createForm = form
	case ModalEdit:
		c.editForm = form
	}
}

// OpenEdit opens the edit modal with post loaded into the form.
func (c *Controller) OpenEdit(post model.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.modal = ModalEdit
	c.current = &post
	c.editForm = PostFormFrom(post)
	c.editErrs = nil
}

func (c *Controller) SubmitEdit(ctx context.Context, form PostForm) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if c.current == nil {
		c.mu.Unlock()
		return ErrNoPostSelected
	}
	id := c.current.ID
	c.modal = ModalEdit
	c.editForm = form
	c.editErrs = nil
	if err := form.Validate(); err != nil {
		c.editErrs = asFieldErrors(err)
		c.mu.Unlock()
		return err
	}
	c.submitting = true
	c.mu.Unlock()
	defer c.endSubmit()

	form = form.normalized()
	if _, err := c.posts.Edit(ctx, c.token, id, form.Title, form.Body, form.Tags); err != nil {
		return Classify(err)
	}

	c.mu.Lock()
	c.modal = ModalNone
	c.current = nil
	c.editForm = PostForm{}
	c.stale = true
	c.mu.Unlock()

	return nil
}

func (c *Controller) OpenDelete(post model.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.modal = ModalDelete
	c.current = &post
}

func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if c.current == nil {
		c.mu.Unlock()
		return ErrNoPostSelected
	}
	id := c.current.ID
	c.submitting = true
	c.mu.Unlock()
	defer c.endSubmit()

	if err := c.posts.Delete(ctx, c.token, id); err != nil {
		return Classify(err)
	}

	c.mu.Lock()
	c.modal = ModalNone
	c.current = nil
	c.stale = true
	c.mu.Unlock()

	return nil
}

// OpenByID opens the edit or delete modal for a post, looking it up in the
// loaded page first and asking the posts API otherwise.
func (c *Controller) OpenByID(ctx context.Context, modal Modal, id string) error {
	c.mu.Lock()
	post, ok := c.view.find(id)
	var found model.Post
	if ok {
		found = *post
	}
	c.mu.Unlock()

	if !ok {
		fetched, err := c.posts.View(ctx, c.token, id)
		if err != nil {
			return Classify(err)
		}
		found = *fetched
	}

	switch modal {
	case ModalEdit:
		c.OpenEdit(found)
	case ModalDelete:
		c.OpenDelete(found)
	default:
		return fmt.Errorf("modal %q does not take a post", modal.String())
	}
	return nil
}

// Cancel closes any modal without changing data. The create form keeps its
// input; the edit form is reset.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.modal = ModalNone
	c.current = nil
	c.editForm = PostForm{}
	c.editErrs = nil
	c.createErrs = nil
}

func (c *Controller) endSubmit() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

func asFieldErrors(err error) FieldErrors {
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return nil
}

// Classify maps posts API failures onto the errors the shells act on.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	case errors.Is(err, client.ErrTransport):
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return err
}
