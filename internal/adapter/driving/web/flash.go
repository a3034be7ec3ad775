package web

import (
	"encoding/base64"
	"net/http"
	"strings"

	vm "github.com/ericfisherdev/certpanel/internal/adapter/driving/web/viewmodel"
)

const flashCookieName = "flash"

const (
	flashKindInfo  = "i"
	flashKindError = "e"
)

// setFlash stores a one-shot message for the page the client is redirected to.
func setFlash(w http.ResponseWriter, message string, isError bool) {
	kind := flashKindInfo
	if isError {
		kind = flashKindError
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    kind + base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns and clears the pending flash message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *vm.FlashViewModel {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	kind, encoded := cookie.Value[:1], cookie.Value[1:]
	msg, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || strings.TrimSpace(string(msg)) == "" {
		return nil
	}
	return &vm.FlashViewModel{Message: string(msg), IsError: kind == flashKindError}
}
