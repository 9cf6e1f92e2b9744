package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"coursecal/models"
	"coursecal/services/schedule"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleService inserts events through the Google Calendar v3 API using the
// caller's OAuth access token.
type GoogleService struct {
	// Endpoint overrides the API base URL. Empty uses Google's default.
	Endpoint string
	// HTTPClient is the transport beneath the bearer token. Nil uses
	// http.DefaultClient.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewGoogleService(endpoint string, logger *zap.Logger) *GoogleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleService{Endpoint: endpoint, Logger: logger}
}

func (g *GoogleService) client(ctx context.Context, token string) (*gcal.Service, error) {
	base := g.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if g.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.Endpoint))
	}
	return gcal.NewService(ctx, opts...)
}

func (g *GoogleService) InsertEvent(ctx context.Context, token, calendarID string, ev *models.RecurringEvent) (string, error) {
	if token == "" {
		return "", schedule.NewError(schedule.KindAuthFailure, ev.CourseID, "missing access token", nil)
	}
	if calendarID == "" {
		calendarID = PrimaryCalendarID
	}

	svc, err := g.client(ctx, token)
	if err != nil {
		return "", schedule.NewError(schedule.KindRemoteInsertFailure, ev.CourseID, "failed to create calendar client", err)
	}

	created, err := svc.Events.Insert(calendarID, ToGoogleEvent(ev)).Context(ctx).Do()
	if err != nil {
		return "", classifyInsertError(ev.CourseID, err)
	}
	g.Logger.Debug("calendar: event inserted",
		zap.String("courseId", ev.CourseID),
		zap.String("eventId", created.Id),
	)
	return created.Id, nil
}

// ToGoogleEvent maps the derived event onto the v3 wire type.
func ToGoogleEvent(ev *models.RecurringEvent) *gcal.Event {
	return &gcal.Event{
		Summary:     ev.Title,
		Location:    ev.Location,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: ev.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: ev.TimeZone,
		},
		Recurrence: []string{ev.Recurrence},
	}
}

// 403 reasons that mean the credential, not the request, is the problem.
var authReasons = map[string]bool{
	"authError":               true,
	"insufficientPermissions": true,
	"unauthorized":            true,
}

func classifyInsertError(courseID string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized:
			return schedule.NewError(schedule.KindAuthFailure, courseID, "access token rejected", err)
		case gerr.Code == http.StatusForbidden && hasAuthReason(gerr):
			return schedule.NewError(schedule.KindAuthFailure, courseID, "access token lacks calendar scope", err)
		}
		return schedule.NewError(schedule.KindRemoteInsertFailure, courseID,
			fmt.Sprintf("calendar rejected event (HTTP %d)", gerr.Code), err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return schedule.NewError(schedule.KindRemoteInsertFailure, courseID, "calendar insert timed out", err)
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return schedule.NewError(schedule.KindAuthFailure, courseID, "token refresh failed", err)
	}
	return schedule.NewError(schedule.KindRemoteInsertFailure, courseID, "calendar insert failed", err)
}

func hasAuthReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if authReasons[item.Reason] {
			return true
		}
	}
	return false
}
