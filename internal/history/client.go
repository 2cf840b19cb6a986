package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnavailable covers network and server failures; callers keep their
	// previously displayed state and retry on their own schedule.
	ErrUnavailable = errors.New("history unavailable")
	ErrNotFound    = errors.New("round not found")
)

// Client fetches history pages and single-round fairness records over the
// game's REST API. Game selects the variant path segment: "jackpot" or
// "grand-jackpot".
type Client struct {
	baseURL string
	game    string
	httpc   *http.Client
}

func NewClient(baseURL, game string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		game:    game,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// History returns one page of finished rounds, newest first. userName is an
// optional server-side filter.
func (c *Client) History(ctx context.Context, offset, count int, userName string) ([]Record, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("count", strconv.Itoa(count))
	if userName != "" {
		q.Set("userName", userName)
	}
	endpoint := fmt.Sprintf("%s/%s/history?%s", c.baseURL, c.game, q.Encode())

	var page []Record
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// Round fetches one round's record including the fairness fields.
func (c *Client) Round(ctx context.Context, roundID string) (Record, error) {
	endpoint := fmt.Sprintf("%s/%s/rounds/%s", c.baseURL, c.game, url.PathEscape(roundID))
	var rec Record
	if err := c.getJSON(ctx, endpoint, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}
