package service

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"rollingdice-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiceAPIClient struct {
	rollResult *model.DiceValue
	rollErr    error
	listResult []model.DiceHistory
	listErr    error

	gotQuery url.Values
	gotBody  *model.DiceValue
}

func (c *fakeDiceAPIClient) Roll(_ context.Context, query url.Values, body *model.DiceValue) (*model.DiceValue, error) {
	c.gotQuery = query
	c.gotBody = body
	return c.rollResult, c.rollErr
}

func (c *fakeDiceAPIClient) List(context.Context) ([]model.DiceHistory, error) {
	return c.listResult, c.listErr
}

func strPtr(v string) *string { return &v }

func TestCallRollDiceAPIForwardsParameters(t *testing.T) {
	v := model.NewDiceValue(3)
	client := &fakeDiceAPIClient{rollResult: &v}
	svc := NewWebUIService(client)

	got := svc.CallRollDiceAPI(context.Background(), RollParams{
		Sleep: strPtr("1"),
		Error: strPtr("false"),
		Value: intPtr(3),
	})

	assert.Equal(t, "3", got)
	assert.Equal(t, "1", client.gotQuery.Get("sleep"))
	assert.Equal(t, "false", client.gotQuery.Get("error"))
	assert.False(t, client.gotQuery.Has("loop"))
	require.NotNil(t, client.gotBody)
	assert.Equal(t, 3, *client.gotBody.Value)
}

func TestCallRollDiceAPIWithoutValueSendsNoBody(t *testing.T) {
	v := model.NewDiceValue(6)
	client := &fakeDiceAPIClient{rollResult: &v}
	svc := NewWebUIService(client)

	assert.Equal(t, "6", svc.CallRollDiceAPI(context.Background(), RollParams{}))
	assert.Nil(t, client.gotBody)
	assert.Empty(t, client.gotQuery)
}

func TestCallRollDiceAPIFallsBackToZero(t *testing.T) {
	svc := NewWebUIService(&fakeDiceAPIClient{rollErr: errors.New("connection refused")})
	assert.Equal(t, "0", svc.CallRollDiceAPI(context.Background(), RollParams{Error: strPtr("true")}))

	svc = NewWebUIService(&fakeDiceAPIClient{rollResult: &model.DiceValue{}})
	assert.Equal(t, "0", svc.CallRollDiceAPI(context.Background(), RollParams{}))
}

func TestCallListDiceAPI(t *testing.T) {
	history := []model.DiceHistory{
		{ID: 2, Value: 5, UpdatedAt: model.LocalTime(time.Now())},
		{ID: 1, Value: 1, UpdatedAt: model.LocalTime(time.Now())},
	}
	svc := NewWebUIService(&fakeDiceAPIClient{listResult: history})
	assert.Equal(t, history, svc.CallListDiceAPI(context.Background()))
}

func TestCallListDiceAPIFallsBackToEmpty(t *testing.T) {
	svc := NewWebUIService(&fakeDiceAPIClient{listErr: errors.New("timeout")})
	list := svc.CallListDiceAPI(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)

	svc = NewWebUIService(&fakeDiceAPIClient{})
	list = svc.CallListDiceAPI(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCurrentURL(t *testing.T) {
	svc := NewWebUIService(&fakeDiceAPIClient{})

	r := httptest.NewRequest("GET", "http://localhost:8080/?sleep=1&value=3", nil)
	assert.Equal(t, "http://localhost:8080/", svc.CurrentURL(r))

	r = httptest.NewRequest("GET", "http://localhost:8080/", nil)
	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://localhost:8080/", svc.CurrentURL(r))

	r = httptest.NewRequest("GET", "http://10.0.0.5:8080/", nil)
	r.Header.Set("X-Forwarded-Proto", "https, http")
	r.Header.Set("X-Forwarded-Host", "dice.example.com")
	assert.Equal(t, "https://dice.example.com/", svc.CurrentURL(r))
}
