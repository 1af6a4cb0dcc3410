// Package rider talks to the last-mile delivery service and drives a
// rider's assigned shipments from pending to delivered.
package rider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lukman83/martdash/internal/httputil"
	"github.com/lukman83/martdash/internal/models"
)

// ErrNoTrip is returned by AssignedTrip when the rider has no trip today.
var ErrNoTrip = errors.New("no trip assigned")

// Client is a thin wrapper over the rider service. It never retries.
type Client struct {
	http     *http.Client
	baseURL  string
	provider string
	hashCode string
}

// NewClient returns a client for the service at baseURL. provider and
// hashCode are sent with every OTP request.
func NewClient(httpClient *http.Client, baseURL, provider, hashCode string) *Client {
	return &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		provider: provider,
		hashCode: hashCode,
	}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// SendOTP asks the service to text a one-time code to mobile.
func (c *Client) SendOTP(ctx context.Context, mobile string) error {
	body := map[string]string{
		"mobileNumber": mobile,
		"provider":     c.provider,
		"hashCode":     c.hashCode,
	}
	_, err := c.do(ctx, "send otp", http.MethodPost, "/login", nil, body)
	return err
}

// VerifyOTP exchanges the code for a token pair.
func (c *Client) VerifyOTP(ctx context.Context, mobile, otp string) (models.AuthSession, error) {
	body := map[string]string{"mobileNumber": mobile, "otp": otp}
	data, err := c.do(ctx, "verify otp", http.MethodPost, "/verify-otp", nil, body)
	if err != nil {
		return models.AuthSession{}, err
	}
	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return models.AuthSession{}, fmt.Errorf("verify otp: decode tokens: %w", err)
	}
	if tokens.AccessToken == "" {
		return models.AuthSession{}, errors.New("verify otp: response has no access token")
	}
	return models.AuthSession{
		MobileNumber: mobile,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// AssignedTrip returns the rider's current trip. A 404 or an accepted
// request with no trip data gives ErrNoTrip.
func (c *Client) AssignedTrip(ctx context.Context, sess models.AuthSession) (models.Trip, error) {
	data, err := c.do(ctx, "assigned trip", http.MethodGet, "/trip/assigned", &sess, nil)
	if err != nil {
		if httputil.StatusCode(err) == http.StatusNotFound {
			return models.Trip{}, ErrNoTrip
		}
		return models.Trip{}, err
	}
	if isEmpty(data) {
		return models.Trip{}, ErrNoTrip
	}
	var trip models.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return models.Trip{}, fmt.Errorf("assigned trip: decode: %w", err)
	}
	return trip, nil
}

// CartOrderIDs returns every order id of the shipment, flattened across carts
// in the order the service lists them.
func (c *Client) CartOrderIDs(ctx context.Context, sess models.AuthSession, tripID, shipmentID string) ([]OrderID, error) {
	path := "/trip/" + url.PathEscape(tripID) + "/shipment/" + url.PathEscape(shipmentID)
	data, err := c.do(ctx, "cart details", http.MethodGet, path, &sess, nil)
	if err != nil {
		return nil, err
	}
	if isEmpty(data) {
		return nil, nil
	}
	var details struct {
		Carts []struct {
			Orders []struct {
				OrderID OrderID `json:"order_id"`
			} `json:"orders_list"`
		} `json:"cart_wise_order_details"`
	}
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("cart details: decode: %w", err)
	}
	var ids []OrderID
	for _, cart := range details.Carts {
		for _, o := range cart.Orders {
			if o.OrderID.IsZero() {
				continue
			}
			ids = append(ids, o.OrderID)
		}
	}
	return ids, nil
}

// MarkArrived reports the rider at the drop location.
func (c *Client) MarkArrived(ctx context.Context, sess models.AuthSession, shipmentID string, lat, lng float64) error {
	body := map[string]float64{"latitude": lat, "longitude": lng}
	_, err := c.do(ctx, "mark arrived", http.MethodPut, "/arrived-at-location/"+url.PathEscape(shipmentID), &sess, body)
	return err
}

type cashPayment struct {
	CODAmount float64   `json:"cod_amount"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	OrderIDs  []OrderID `json:"order_ids"`
	Shipment  string    `json:"shipment_id"`
}

// ConfirmCashPayment closes the shipment as paid in cash.
func (c *Client) ConfirmCashPayment(ctx context.Context, sess models.AuthSession, shipmentID string, orderIDs []OrderID, cod, lat, lng float64) error {
	body := cashPayment{
		CODAmount: cod,
		Latitude:  lat,
		Longitude: lng,
		OrderIDs:  orderIDs,
		Shipment:  shipmentID,
	}
	_, err := c.do(ctx, "cash payment", http.MethodPost, "/cash-payment", &sess, body)
	return err
}

func isEmpty(data json.RawMessage) bool {
	d := bytes.TrimSpace(data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

// do sends one request and returns the envelope's data field.
func (c *Client) do(ctx context.Context, op, method, path string, sess *models.AuthSession, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for k, v := range httputil.JSONHeaders() {
		req.Header[k] = v
	}
	if sess != nil {
		req.Header.Set("authorization-access", sess.AccessToken)
		req.Header.Set("authorization-refresh", sess.RefreshToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if err := httputil.CheckStatus(op, resp, respBody); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("%s: decode envelope: %w", op, err)
	}
	return env.Data, nil
}
