package web

import "github.com/castellanoconmh/aula"

type codeForm struct {
	Code string `json:"code" schema:"code" validate:"required,max=32"`
}

type confirmForm struct {
	Confirm string `schema:"confirm" validate:"omitempty,oneof=yes no"`
}

type examForm struct {
	Link  string `schema:"link" validate:"required,httpurl"`
	Title string `schema:"title" validate:"required,max=200"`
}

type generateForm struct {
	Count int `schema:"count" validate:"omitempty,min=1,max=20"`
}

type googleCallbackQuery struct {
	Code  string `schema:"code"`
	Error string `schema:"error"`
	State string `schema:"state" validate:"required"`
}

type loginForm struct {
	Email    string `schema:"email" validate:"required,email"`
	Next     string `schema:"next"`
	Password string `schema:"password" validate:"required"`
}

type nextQuery struct {
	Next string `schema:"next"`
}

type registerForm struct {
	Email    string `schema:"email" validate:"required,email"`
	Password string `schema:"password" validate:"required"`
}

type tabQuery struct {
	Tab aula.Collection `schema:"tab" validate:"omitempty,enum"`
}

type videoForm struct {
	Title string `schema:"title" validate:"required,max=200"`
	URL   string `schema:"url" validate:"required,httpurl"`
}
