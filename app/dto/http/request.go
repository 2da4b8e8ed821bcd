package http

import "strings"

// FieldErrors maps a request field to its validation messages. It is
// serialized as-is in 400 responses.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

func requireField(errs FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.add(field, "Missing data for required field.")
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (r *RegisterRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	requireField(errs, "username", r.Username)
	requireField(errs, "password", r.Password)
	requireField(errs, "email", r.Email)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// LoginRequest deliberately has no email field: a client-supplied email
// is ignored on login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	requireField(errs, "username", r.Username)
	requireField(errs, "password", r.Password)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type ItemRequest struct {
	Price   float64 `json:"price"`
	StoreID uint64  `json:"store_id"`
}

func (r *ItemRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if r.Price < 0 {
		errs.add("price", "Must be greater than or equal to 0.")
	}
	if r.StoreID == 0 {
		errs.add("store_id", "Missing data for required field.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
