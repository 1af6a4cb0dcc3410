package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// looseNumber accepts a JSON number or a numeric string. Anything else,
// null included, decodes to 0.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	*n = looseNumber(v)
	return nil
}

// looseString accepts a JSON string or a bare number. Anything else decodes
// to "".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		*s = looseString(num.String())
		return nil
	}
	*s = ""
	return nil
}

// UnmarshalJSON decodes a shipment, tolerating ids and numbers sent with
// the wrong JSON type.
func (s *Shipment) UnmarshalJSON(b []byte) error {
	type plain Shipment
	aux := struct {
		*plain
		ShipmentID        looseString `json:"shipment_id"`
		CustomerName      looseString `json:"customer_name"`
		CustomerNumber    looseString `json:"customer_number"`
		CustomerAddress   looseString `json:"customer_address"`
		CustomerLatitude  looseNumber `json:"customer_latitude"`
		CustomerLongitude looseNumber `json:"customer_longitude"`
		CODAmount         looseNumber `json:"cod_amount"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.ShipmentID = string(aux.ShipmentID)
	s.CustomerName = string(aux.CustomerName)
	s.CustomerNumber = string(aux.CustomerNumber)
	s.CustomerAddress = string(aux.CustomerAddress)
	s.CustomerLatitude = float64(aux.CustomerLatitude)
	s.CustomerLongitude = float64(aux.CustomerLongitude)
	s.CODAmount = float64(aux.CODAmount)
	return nil
}

// UnmarshalJSON decodes a trip, accepting a numeric trip id.
func (t *Trip) UnmarshalJSON(b []byte) error {
	type plain Trip
	aux := struct {
		*plain
		TripID looseString `json:"trip_id"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.TripID = string(aux.TripID)
	return nil
}
