package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"list-app-go/internal/transport/httpserver/handler"
	corsmw "list-app-go/internal/transport/httpserver/middleware"
	"list-app-go/internal/transport/wshub"
	"list-app-go/pkg/logger"
)

func NewRouter(handlers *handler.Handlers, hub *wshub.Hub, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(corsmw.NewCORS([]string{"http://localhost:5173", "http://localhost:8081"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/session/load", handlers.Load)
		r.Post("/session/signout", handlers.SignOut)
		r.Get("/state", handlers.State)

		r.Get("/lists", handlers.ListLists)
		r.Post("/lists", handlers.CreateList)
		r.Delete("/lists/{list_id}", handlers.DeleteList)
		r.Post("/lists/{list_id}/rename", handlers.RenameList)
		r.Post("/lists/{list_id}/share", handlers.ShareList)
		r.Post("/lists/{list_id}/duplicate", handlers.DuplicateList)
		r.Post("/lists/{list_id}/archive", handlers.ArchiveList)

		r.Get("/lists/{list_id}/items", handlers.ListItems)
		r.Post("/lists/{list_id}/items", handlers.AddItem)
		r.Patch("/lists/{list_id}/items", handlers.UpdateItem)
		r.Delete("/lists/{list_id}/items/{item_id}", handlers.RemoveItem)
		r.Post("/lists/{list_id}/items/check-all", handlers.CheckAllItems)
		r.Post("/lists/{list_id}/items/clear", handlers.ClearItems)
	})

	r.Get("/ws", wshub.Handler(hub, log))

	return r
}
