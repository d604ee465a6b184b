package fixture

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	defaultTimeout = 10 * time.Second
	dateLayout     = "2006-01-02"
)

// Fixture 单场赛程
type Fixture struct {
	ID        int64     `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	League    string    `json:"league"`
	Country   string    `json:"country"`
	KickoffAt time.Time `json:"kickoff_at"`
	Status    string    `json:"status"`
}

// APIError 上游返回非预期的 HTTP 状态或业务错误
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fixture api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("x-apisports-key", apiKey).
			SetHeader("Accept", "application/json"),
	}
}

type fixturesResponse struct {
	Errors   json.RawMessage `json:"errors"`
	Response []struct {
		Fixture struct {
			ID     int64  `json:"id"`
			Date   string `json:"date"`
			Status struct {
				Short string `json:"short"`
			} `json:"status"`
		} `json:"fixture"`
		League struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"league"`
		Teams struct {
			Home struct {
				Name string `json:"name"`
			} `json:"home"`
			Away struct {
				Name string `json:"name"`
			} `json:"away"`
		} `json:"teams"`
	} `json:"response"`
}

// FixturesByDate 查询某一天的全部赛程
func (c *Client) FixturesByDate(ctx context.Context, day time.Time) ([]Fixture, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", day.UTC().Format(dateLayout)).
		Get("/fixtures")
	if err != nil {
		return nil, fmt.Errorf("request fixtures: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	}

	var body fixturesResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	// errors 为空数组或空对象时表示成功
	if e := strings.TrimSpace(string(body.Errors)); e != "" && e != "[]" && e != "{}" && e != "null" {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: e}
	}

	fixtures := make([]Fixture, 0, len(body.Response))
	for _, item := range body.Response {
		kickoff, err := time.Parse(time.RFC3339, item.Fixture.Date)
		if err != nil {
			continue
		}
		if item.Teams.Home.Name == "" || item.Teams.Away.Name == "" {
			continue
		}
		fixtures = append(fixtures, Fixture{
			ID:        item.Fixture.ID,
			HomeTeam:  item.Teams.Home.Name,
			AwayTeam:  item.Teams.Away.Name,
			League:    item.League.Name,
			Country:   item.League.Country,
			KickoffAt: kickoff.UTC(),
			Status:    item.Fixture.Status.Short,
		})
	}
	return fixtures, nil
}
