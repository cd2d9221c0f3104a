package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"github.com/machinebox/graphql"
)

const apiKeyHeader = "x-api-key"

const getUserQuery = `
  query GetUser($email: String!) {
    user(by: { email: $email }) {
      id
      name
      email
      avatarUrl
      description
      githubUrl
      linkedInUrl
    }
  }
`

const createUserMutation = `
  mutation CreateUser($input: UserCreateInput!) {
    userCreate(input: $input) {
      user {
        id
        name
        email
        avatarUrl
        description
        githubUrl
        linkedInUrl
      }
    }
  }
`

var errNoData = errors.New("response carries no data")

// GraphQLClient talks to the managed GraphQL backend over HTTP.
type GraphQLClient struct {
	client     *graphql.Client
	credential string
}

var _ Client = (*GraphQLClient)(nil)

// NewGraphQLClient builds a client for endpoint. credential is sent as the
// x-api-key header when non-empty. A nil httpClient means http.DefaultClient;
// deadlines come from the request context, not from the client.
func NewGraphQLClient(endpoint, credential string, httpClient *http.Client) *GraphQLClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GraphQLClient{
		client:     graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		credential: credential,
	}
}

// LookupUser runs the GetUser query. A null user is common.ErrorNotFound.
func (c *GraphQLClient) LookupUser(ctx context.Context, email string) (*models.UserProfile, error) {
	var data struct {
		User *models.UserProfile `json:"user"`
	}

	req := c.newRequest(getUserQuery)
	req.Var("email", email)

	if err := c.run(ctx, req, &data); err != nil {
		return nil, fmt.Errorf("%w: lookup user: %w", common.ErrGateway, err)
	}

	if data.User == nil {
		return nil, common.ErrorNotFound
	}

	return data.User, nil
}

// CreateUser runs the CreateUser mutation.
func (c *GraphQLClient) CreateUser(ctx context.Context, name, email, avatarURL string) (*models.UserProfile, error) {
	req := c.newRequest(createUserMutation)
	req.Var("input", map[string]any{
		"name":      name,
		"email":     email,
		"avatarUrl": avatarURL,
	})

	var data struct {
		UserCreate struct {
			User *models.UserProfile `json:"user"`
		} `json:"userCreate"`
	}

	if err := c.run(ctx, req, &data); err != nil {
		return nil, fmt.Errorf("%w: create user: %w", common.ErrGateway, err)
	}

	if data.UserCreate.User == nil {
		return nil, fmt.Errorf("%w: create user: %w", common.ErrGateway, errNoData)
	}

	return data.UserCreate.User, nil
}

func (c *GraphQLClient) newRequest(query string) *graphql.Request {
	req := graphql.NewRequest(query)
	if c.credential != "" {
		req.Header.Set(apiKeyHeader, c.credential)
	}
	return req
}

// run executes req and decodes its data into out. GraphQL errors and
// undecodable bodies come back from the library as errors; a null or absent
// data member is errNoData.
func (c *GraphQLClient) run(ctx context.Context, req *graphql.Request, out any) error {
	var data json.RawMessage
	if err := c.client.Run(ctx, req, &data); err != nil {
		return err
	}

	if len(data) == 0 || string(data) == "null" {
		return errNoData
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding data: %w", err)
	}

	return nil
}
