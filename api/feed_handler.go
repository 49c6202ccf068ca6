package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/services"
)

type feedHandler struct {
	responder Responder
	logger    zerolog.Logger
	feed      *services.FeedService
}

func newFeedHandler(feed *services.FeedService) feedHandler {
	logger := log.With().Str("handlerName", "feedHandler").Logger()

	return feedHandler{
		responder: NewResponder(logger),
		logger:    logger,
		feed:      feed,
	}
}

func (h feedHandler) getRSS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rss, err := h.feed.RSS(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		if _, err := w.Write([]byte(rss)); err != nil {
			h.logger.Error().Err(err).Msg("error writing rss feed")
		}
	}
}

func (h feedHandler) getSitemap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sitemap, err := h.feed.Sitemap(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		if _, err := w.Write(sitemap); err != nil {
			h.logger.Error().Err(err).Msg("error writing sitemap")
		}
	}
}
