package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"kidofood-web/internal/logger"
	"kidofood-web/internal/model"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
)

const PathGraphQL = "/graphql"

const loginDocument = `
mutation LoginUser($email: String!, $password: String!) {
	loginUser(email: $email, password: $password) {
		__typename
		... on User { id name email type }
		... on Result { success message }
	}
}`

const logoutDocument = `
mutation LogoutUser {
	logoutUser { success message }
}`

const registerDocument = `
mutation RegisterUser($email: String!, $password: String!, $name: String!) {
	registerUser(email: $email, password: $password, name: $name) {
		__typename
		... on User { id name email type }
		... on Result { success message }
	}
}`

var (
	ErrGraphQLTransport = errors.New("graphql request failed")

	loginMutation    = mustMutation(loginDocument)
	logoutMutation   = mustMutation(logoutDocument)
	registerMutation = mustMutation(registerDocument)
)

// MutationError is a failure the backend reported in-band, e.g. a wrong
// password. The message is safe to show to the visitor.
type MutationError struct {
	Operation string
	Message   string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

type mutation struct {
	name     string
	document string
}

// mustMutation parses a document at init so a typo fails at startup
// instead of on the first login.
func mustMutation(doc string) mutation {
	parsed, err := parser.ParseQuery(&ast.Source{Name: "mutation", Input: doc})
	if err != nil {
		panic(fmt.Sprintf("invalid graphql document: %v", err))
	}
	if len(parsed.Operations) != 1 || parsed.Operations[0].Operation != ast.Mutation {
		panic("graphql document must hold exactly one mutation")
	}
	return mutation{name: parsed.Operations[0].Name, document: doc}
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// userResult is the UserResult union: either a User or a Result.
type userResult struct {
	Typename string  `json:"__typename"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Type     string  `json:"type"`
	Success  *bool   `json:"success"`
	Message  *string `json:"message"`
}

type plainResult struct {
	Success bool    `json:"success"`
	Message *string `json:"message"`
}

// AuthResult carries the user and the backend cookies that must be relayed
// to the browser.
type AuthResult struct {
	User    model.User
	Cookies []*http.Cookie
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*AuthResult, error) {
	field, cookies, err := c.mutate(ctx, loginMutation, "loginUser", map[string]any{
		"email":    req.Email,
		"password": req.Password,
	})
	if err != nil {
		return nil, err
	}
	user, err := decodeUserResult(loginMutation.name, field)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Cookies: cookies}, nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	field, _, err := c.mutate(ctx, registerMutation, "registerUser", map[string]any{
		"email":    req.Email,
		"password": req.Password,
		"name":     req.Name,
	})
	if err != nil {
		return nil, err
	}
	user, err := decodeUserResult(registerMutation.name, field)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the backend session and returns the cookies clearing it.
func (c *Client) Logout(ctx context.Context) ([]*http.Cookie, error) {
	field, cookies, err := c.mutate(ctx, logoutMutation, "logoutUser", nil)
	if err != nil {
		return cookies, err
	}
	var res plainResult
	if err := json.Unmarshal(field, &res); err != nil {
		return cookies, fmt.Errorf("%w: %v", ErrGraphQLTransport, err)
	}
	if !res.Success {
		msg := "logout failed"
		if res.Message != nil {
			msg = *res.Message
		}
		return cookies, &MutationError{Operation: logoutMutation.name, Message: msg}
	}
	return cookies, nil
}

func (c *Client) mutate(ctx context.Context, m mutation, field string, vars map[string]any) (json.RawMessage, []*http.Cookie, error) {
	log := logger.FromCtx(ctx).With(zap.String("operation", m.name))

	payload, err := json.Marshal(graphQLRequest{Query: m.document, OperationName: m.name, Variables: vars})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrGraphQLTransport, err)
	}

	status, body, cookies, err := c.do(ctx, http.MethodPost, PathGraphQL, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrGraphQLTransport, err)
	}

	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Warn("graphql response is not json", zap.Int("status", status))
		return nil, cookies, fmt.Errorf("%w: status %d", ErrGraphQLTransport, status)
	}
	if len(resp.Errors) > 0 {
		log.Info("graphql mutation returned errors", zap.String("error", resp.Errors[0].Message))
		return nil, cookies, &MutationError{Operation: m.name, Message: resp.Errors[0].Message}
	}

	raw, ok := resp.Data[field]
	if !ok || string(raw) == "null" {
		return nil, cookies, fmt.Errorf("%w: missing %s in response", ErrGraphQLTransport, field)
	}
	return raw, cookies, nil
}

func decodeUserResult(op string, raw json.RawMessage) (model.User, error) {
	var res userResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrGraphQLTransport, err)
	}

	if res.Typename == "Result" || res.Success != nil {
		msg := "request rejected"
		if res.Message != nil && *res.Message != "" {
			msg = *res.Message
		}
		return model.User{}, &MutationError{Operation: op, Message: msg}
	}

	role, err := model.ParseRole(res.Type)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrGraphQLTransport, err)
	}
	return model.User{ID: res.ID, Email: res.Email, Name: res.Name, Role: role}, nil
}
