package wcl

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"text/template"
	"time"

	"combatlog_check/cache"
	"combatlog_check/combatlog"
	"combatlog_check/share"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	maxRetries = 3
	maxPages   = 100
)

var (
	strBufPool = sync.Pool{
		New: func() interface{} {
			sb := new(strings.Builder)
			sb.Grow(4 * 1024)
			return sb
		},
	}
	bytBufPool = sync.Pool{
		New: func() interface{} {
			buf := new(bytes.Buffer)
			buf.Grow(4 * 1024)
			return buf
		},
	}
)

type Options struct {
	Endpoint     string
	TokenURL     string
	ClientID     string
	ClientSecret string

	HTTPClient *http.Client
	// Events caches fetched event pages. Optional.
	Events *cache.Storage
	// RetryDelay defaults to 3s.
	RetryDelay time.Duration
}

type Client struct {
	endpoint   string
	http       *http.Client
	oauth      *oauthClient
	events     *cache.Storage
	retryDelay time.Duration
}

func New(opt Options) *Client {
	if opt.HTTPClient == nil {
		opt.HTTPClient = share.NewHTTPClient()
	}
	if opt.RetryDelay == 0 {
		opt.RetryDelay = 3 * time.Second
	}

	return &Client{
		endpoint: opt.Endpoint,
		http:     opt.HTTPClient,
		oauth: &oauthClient{
			http:         opt.HTTPClient,
			tokenURL:     opt.TokenURL,
			clientID:     opt.ClientID,
			clientSecret: opt.ClientSecret,
		},
		events:     opt.Events,
		retryDelay: opt.RetryDelay,
	}
}

type Fight struct {
	ID          int    `json:"id"`
	EncounterID int    `json:"encounterID"`
	Name        string `json:"name"`
	StartTime   int    `json:"startTime"`
	EndTime     int    `json:"endTime"`
	Kill        bool   `json:"kill"`
}

type Actor struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Server  string `json:"server"`
	SubType string `json:"subType"`
}

type Report struct {
	Code   string
	Fights []Fight
	Actors []Actor
}

func (r *Report) Actor(id int) (Actor, bool) {
	for _, a := range r.Actors {
		if a.ID == id {
			return a, true
		}
	}
	return Actor{}, false
}

var ErrReportNotFound = errors.New("report not found")

type graphQLError struct {
	Message string `json:"message"`
}

// Fights returns the requested fights of a report and its player actors.
func (c *Client) Fights(ctx context.Context, code string, fightIDs []int) (*Report, error) {
	var resp struct {
		Data struct {
			ReportData struct {
				Report *struct {
					Fights     []Fight `json:"fights"`
					MasterData struct {
						Actors []Actor `json:"actors"`
					} `json:"masterData"`
				} `json:"report"`
			} `json:"reportData"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}

	tmplData := struct {
		Code     string
		FightIDs []int
	}{code, fightIDs}

	err := c.CallGraphQL(ctx, tmplReportFights, tmplData, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, errors.Errorf("report %s: %s", code, resp.Errors[0].Message)
	}
	if resp.Data.ReportData.Report == nil {
		return nil, errors.Wrapf(ErrReportNotFound, "report %s", code)
	}

	return &Report{
		Code:   code,
		Fights: resp.Data.ReportData.Report.Fights,
		Actors: resp.Data.ReportData.Report.MasterData.Actors,
	}, nil
}

type eventsPage struct {
	Data              jsoniter.RawMessage `json:"data"`
	NextPageTimestamp *int                `json:"nextPageTimestamp"`
}

// CastEvents pages through the casts of sourceID in a fight. Timestamps are
// returned relative to the fight start.
func (c *Client) CastEvents(ctx context.Context, code string, fight Fight, sourceID int) ([]combatlog.CastEvent, error) {
	var events []combatlog.CastEvent

	startTime := fight.StartTime
	for page := 0; page < maxPages; page++ {
		p, err := c.castEventsPage(ctx, code, fight, sourceID, startTime)
		if err != nil {
			return nil, err
		}

		data, err := combatlog.DecodeRaw(p.Data)
		if err != nil {
			return nil, err
		}
		for _, e := range data {
			e.Timestamp -= fight.StartTime
			events = append(events, e)
		}

		if p.NextPageTimestamp == nil || *p.NextPageTimestamp <= startTime {
			return events, nil
		}
		startTime = *p.NextPageTimestamp
	}

	return nil, errors.Errorf("report %s fight %d: too many event pages", code, fight.ID)
}

func (c *Client) castEventsPage(ctx context.Context, code string, fight Fight, sourceID int, startTime int) (*eventsPage, error) {
	const cacheKey = "%s_fid_%d_sid_%d___est_%d_eet_%d"

	var p eventsPage
	if c.events != nil && c.events.Load(&p, cacheKey, code, fight.ID, sourceID, startTime, fight.EndTime) {
		return &p, nil
	}

	var resp struct {
		Data struct {
			ReportData struct {
				Report *struct {
					Events *eventsPage `json:"events"`
				} `json:"report"`
			} `json:"reportData"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}

	tmplData := struct {
		Code      string
		FightID   int
		SourceID  int
		StartTime int
		EndTime   int
	}{code, fight.ID, sourceID, startTime, fight.EndTime}

	err := c.CallGraphQL(ctx, tmplReportCastsEvents, tmplData, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, errors.Errorf("report %s fight %d: %s", code, fight.ID, resp.Errors[0].Message)
	}
	if resp.Data.ReportData.Report == nil || resp.Data.ReportData.Report.Events == nil {
		return nil, errors.Errorf("report %s fight %d: no events", code, fight.ID)
	}

	events := resp.Data.ReportData.Report.Events
	if c.events != nil {
		c.events.Save(events, cacheKey, code, fight.ID, sourceID, startTime, fight.EndTime)
	}
	return events, nil
}

// CallGraphQL renders tmpl as the query and decodes the response into
// respData, retrying failed calls.
func (c *Client) CallGraphQL(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = c.callGraphQLInner(ctx, tmpl, tmplData, respData)

		if err == nil {
			break
		}
		if share.IsContextClosedError(err) {
			return err
		}
		log.Debug().Err(err).Int("try", i+1).Msg("graphql call failed")

		if i+1 < maxRetries {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return errors.WithStack(ctx.Err())
			}
		}
	}
	return err
}

func (c *Client) callGraphQLInner(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	sb := strBufPool.Get().(*strings.Builder)
	defer strBufPool.Put(sb)

	sb.Reset()
	err := tmpl.Execute(sb, tmplData)
	if err != nil {
		return errors.WithStack(err)
	}

	queryData := struct {
		Query string `json:"query"`
	}{
		Query: sb.String(),
	}

	buf := bytBufPool.Get().(*bytes.Buffer)
	defer bytBufPool.Put(buf)

	buf.Reset()
	err = jsoniter.NewEncoder(buf).Encode(&queryData)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := c.oauth.NewRequest(ctx, "POST", c.endpoint, buf)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.oauth.Reset()
		return errors.New("graphql: unauthorized")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("graphql: status %d", resp.StatusCode)
	}

	err = jsoniter.NewDecoder(resp.Body).Decode(respData)
	if err != io.EOF && err != nil {
		return errors.WithStack(err)
	}

	return nil
}
