package api

import (
	"errors"
	"net/http"

	"github.com/ysaito/personal-calendar/internal/config"
	"github.com/ysaito/personal-calendar/internal/model"
)

func (a *Api) signInGoogleHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		AuthCode string `json:"auth_code"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	tokenInfo, err := a.tokenParser.GetInfoGoogle(r.Context(), req.AuthCode)
	if err != nil {
		a.unauthorizedResponse(w, r, &model.AuthError{Err: err})
		return
	}

	user, err := a.users.GetUserByEmail(r.Context(), a.db, tokenInfo.Email)
	switch {
	case err == nil:
		if user.FullName != tokenInfo.Name || user.Photo != tokenInfo.Picture {
			user.FullName = tokenInfo.Name
			user.Photo = tokenInfo.Picture
			if err := a.users.UpdateUser(r.Context(), a.db, user); err != nil {
				a.serverErrorResponse(w, r, err)
				return
			}
		}
	case errors.Is(err, model.ErrNoRecord):
		user, err = a.createUser(r, tokenInfo.Name, tokenInfo.Email, tokenInfo.Picture)
		if err != nil {
			a.serverErrorResponse(w, r, err)
			return
		}
	default:
		a.serverErrorResponse(w, r, err)
		return
	}

	tokens, err := a.generateTokens(r.Context(), user.ID)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, tokens, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) createUser(r *http.Request, name, email, photo string) (*model.User, error) {
	tx, err := a.db.BeginTx(r.Context(), nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(r.Context())

	userCreate := &model.UserCreate{
		FullName: name,
		Email:    email,
		Photo:    photo,
	}

	id, err := a.users.CreateUser(r.Context(), tx, userCreate)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(r.Context()); err != nil {
		return nil, err
	}

	return &model.User{ID: id, UserCreate: *userCreate}, nil
}

func (a *Api) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		RefreshToken string `json:"refresh_token"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	id, err := a.refreshTokens.Get(r.Context(), input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.unauthorizedResponse(w, r, errors.New("no such session"))
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	accessToken, err := a.jwts.CreateToken(id)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	newRefreshToken := ""
	for {
		newRefreshToken, err = a.generateRandomString(config.SessionTokenLength())
		if err != nil {
			a.serverErrorResponse(w, r, err)
			return
		}

		if err := a.refreshTokens.Refresh(r.Context(), input.RefreshToken, newRefreshToken); err != nil {
			if errors.Is(err, model.ErrAlreadyExists) {
				continue
			}
			a.serverErrorResponse(w, r, err)
			return
		}

		break
	}

	response := &tokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		RefreshToken string `json:"refresh_token"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.refreshTokens.Delete(r.Context(), input.RefreshToken); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.unauthorizedResponse(w, r, errors.New("no such session"))
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
