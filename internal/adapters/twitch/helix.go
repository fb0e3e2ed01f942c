package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// DefaultHelixURL is the public Twitch Helix API endpoint.
const DefaultHelixURL = "https://api.twitch.tv/helix"

// Helix provides the user and follower lookups backing permission checks.
type Helix struct {
	baseURL  string
	clientID string
	token    string
	client   *http.Client
}

func NewHelix(baseURL, clientID, token string) *Helix {
	return &Helix{
		baseURL:  baseURL,
		clientID: clientID,
		token:    token,
		client:   &http.Client{},
	}
}

type usersResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Login string `json:"login"`
	} `json:"data"`
}

func (h *Helix) UserByLogin(ctx context.Context, login string) (*domain.User, error) {
	body, err := h.get(ctx, "/users?login="+url.QueryEscape(login))
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	var result usersResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error unmarshalling user response: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("could not locate user information for login %q", login)
	}

	return &domain.User{ID: result.Data[0].ID, Name: result.Data[0].Login}, nil
}

type followersResponse struct {
	Total int `json:"total"`
}

func (h *Helix) IsFollowing(ctx context.Context, userID, broadcasterID string) (bool, error) {
	path := fmt.Sprintf("/channels/followers?user_id=%s&broadcaster_id=%s",
		url.QueryEscape(userID), url.QueryEscape(broadcasterID))

	body, err := h.get(ctx, path)
	if err != nil {
		return false, fmt.Errorf("follower lookup failed: %w", err)
	}

	var result followersResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("error unmarshalling followers response: %w", err)
	}

	return result.Total > 0, nil
}

func (h *Helix) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Client-Id", h.clientID)
	req.Header.Set("Authorization", "Bearer "+h.token)

	res, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code: %d", res.StatusCode)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	return buf, nil
}
