package http

import (
	"github.com/Kasamvinay/phishformer/internal/config"
	"github.com/Kasamvinay/phishformer/internal/ml"
	"github.com/Kasamvinay/phishformer/internal/oauth"
	"github.com/Kasamvinay/phishformer/internal/queue"
	"github.com/Kasamvinay/phishformer/internal/repo"
)

type Handler struct {
	Store  *repo.Store
	Cfg    config.Config
	Google *oauth.GoogleOAuth
	ML     *ml.Client
	Events queue.Publisher
}

func NewHandler(store *repo.Store, cfg config.Config, google *oauth.GoogleOAuth, mlc *ml.Client, pub queue.Publisher) *Handler {
	if pub == nil {
		pub = queue.NewNoop()
	}
	return &Handler{
		Store:  store,
		Cfg:    cfg,
		Google: google,
		ML:     mlc,
		Events: pub,
	}
}
