// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package taskplanner

import (
	"errors"
	"net/http"
	"strings"

	"github.com/z5labs/webhost/bootstrap"
	"github.com/z5labs/webhost/exchange"
	"github.com/z5labs/webhost/handler"

	"github.com/goccy/go-json"
)

func init() {
	bootstrap.Annotate(bootstrap.ControllerMarker, NewController(NewStore()))
}

// Controller serves the task planner over HTTP.
type Controller struct {
	store *Store
}

// NewController returns a [Controller] backed by store.
func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

// Routes implements the [bootstrap.Controller] interface.
func (c *Controller) Routes() []bootstrap.Route {
	return []bootstrap.Route{
		{Verb: http.MethodGet, Path: "/tasks", ContentType: exchange.JSON, Handler: c.list},
		{Verb: http.MethodPost, Path: "/tasks", ContentType: exchange.JSON, Handler: c.create},
		{Verb: http.MethodGet, Path: "/tasks/{id}", ContentType: exchange.JSON, Handler: c.get},
		{Verb: http.MethodPut, Path: "/tasks/{id}", ContentType: exchange.JSON, Handler: c.update},
		{Verb: http.MethodDelete, Path: "/tasks/{id}", ContentType: exchange.JSON, Handler: c.delete},
		{Verb: http.MethodPost, Path: "/tasks/{id}/comments", ContentType: exchange.JSON, Handler: c.comment},
		{Verb: http.MethodPost, Path: "/tasks/{id}/likes", ContentType: exchange.JSON, Handler: c.like},
		{Verb: http.MethodPost, Path: "/tasks/{id}/shares", ContentType: exchange.JSON, Handler: c.share},
	}
}

type taskInput struct {
	Title       *string   `json:"title"`
	Priority    *Priority `json:"priority"`
	Description *string   `json:"description"`
	Rating      *int      `json:"rating"`
	Owner       *string   `json:"owner"`
}

func (in taskInput) apply(t *Task) {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Rating != nil {
		t.Rating = *in.Rating
	}
	if in.Owner != nil {
		t.Owner = *in.Owner
	}
}

func (in taskInput) validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return handler.Errorf(http.StatusBadRequest, "title must not be empty")
	}
	if in.Rating != nil && *in.Rating < 0 {
		return handler.Errorf(http.StatusBadRequest, "rating must not be negative")
	}
	return nil
}

func decode(req *exchange.Request, v any) error {
	b, err := req.Body()
	if err != nil {
		return err
	}
	err = json.Unmarshal(b, v)
	if err != nil {
		return handler.Errorf(http.StatusBadRequest, "invalid body: %s", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, ErrTaskNotFound) {
		return handler.StatusError{Code: http.StatusNotFound, Cause: err}
	}
	return err
}

func (c *Controller) list(req *exchange.Request) (any, error) {
	return c.store.List(), nil
}

func (c *Controller) create(req *exchange.Request, resp *exchange.Response) (any, error) {
	var in taskInput
	err := decode(req, &in)
	if err != nil {
		return nil, err
	}
	if in.Title == nil {
		return nil, handler.Errorf(http.StatusBadRequest, "title is required")
	}
	err = in.validate()
	if err != nil {
		return nil, err
	}

	t := Task{Priority: Medium}
	in.apply(&t)
	t = c.store.Create(t)

	resp.SetCode(http.StatusCreated)
	resp.Header().Set("Location", "/tasks/"+t.ID)
	return t, nil
}

func (c *Controller) get(req *exchange.Request) (any, error) {
	t, err := c.store.Get(req.Param("id"))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (c *Controller) update(req *exchange.Request) (any, error) {
	var in taskInput
	err := decode(req, &in)
	if err != nil {
		return nil, err
	}
	err = in.validate()
	if err != nil {
		return nil, err
	}

	t, err := c.store.Update(req.Param("id"), in.apply)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (c *Controller) delete(req *exchange.Request, resp *exchange.Response) (any, error) {
	err := c.store.Delete(req.Param("id"))
	if err != nil {
		return nil, notFound(err)
	}
	resp.SetCode(http.StatusNoContent)
	return nil, nil
}

type commentInput struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

func (c *Controller) comment(req *exchange.Request, resp *exchange.Response) (any, error) {
	var in commentInput
	err := decode(req, &in)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, handler.Errorf(http.StatusBadRequest, "comment text must not be empty")
	}

	t, err := c.store.Comment(req.Param("id"), in.Author, in.Text)
	if err != nil {
		return nil, notFound(err)
	}
	resp.SetCode(http.StatusCreated)
	return t, nil
}

type userInput struct {
	User string `json:"user"`
}

func (c *Controller) like(req *exchange.Request) (any, error) {
	return c.withUser(req, c.store.Like)
}

func (c *Controller) share(req *exchange.Request) (any, error) {
	return c.withUser(req, c.store.Share)
}

func (c *Controller) withUser(req *exchange.Request, f func(id, user string) (Task, error)) (any, error) {
	var in userInput
	err := decode(req, &in)
	if err != nil {
		return nil, err
	}
	if in.User == "" {
		return nil, handler.Errorf(http.StatusBadRequest, "user is required")
	}

	t, err := f(req.Param("id"), in.User)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}
