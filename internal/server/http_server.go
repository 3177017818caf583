package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/oggyb/penzi-exercise/internal/app"
	"github.com/oggyb/penzi-exercise/internal/config"
	"github.com/oggyb/penzi-exercise/internal/service/dating"
)

// inboundMessage is the record the SMS transport posts for each
// received text.
type inboundMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// NewRouter builds the HTTP surface: the SMS webhook, a health check
// and a root banner.
func NewRouter(appCtx *app.AppContext) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "Penzi SMS server")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	RegisterSMSRoutes(r, dating.NewDatingService(appCtx), appCtx)

	return r
}

// RegisterSMSRoutes attaches the SMS webhook to the router.
func RegisterSMSRoutes(r *mux.Router, svc *dating.Service, appCtx *app.AppContext) {
	r.HandleFunc("/sms", func(w http.ResponseWriter, req *http.Request) {
		var msg inboundMessage
		if err := json.NewDecoder(req.Body).Decode(&msg); err != nil {
			writeResult(w, dating.Result{
				Status:     "error",
				Message:    "Missing phone number or text",
				HTTPStatus: http.StatusBadRequest,
			})
			return
		}

		// checked before any parsing happens
		if msg.From == "" || msg.Text == "" {
			writeResult(w, dating.Result{
				Status:     "error",
				Message:    "Missing phone number or text",
				HTTPStatus: http.StatusBadRequest,
			})
			return
		}

		result := svc.Dispatch(req.Context(), msg.From, msg.Text)
		appCtx.Logger.Debug("sms handled", "from", msg.From, "status", result.Status)
		writeResult(w, result)
	}).Methods("POST")
}

func writeResult(w http.ResponseWriter, result dating.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.HTTPStatus)
	_ = json.NewEncoder(w).Encode(result)
}

// StartHTTPServer boots the webhook server with CORS enabled for the
// transport provider's console.
func StartHTTPServer(cfg *config.Config, appCtx *app.AppContext) error {
	router := NewRouter(appCtx)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	return http.ListenAndServe(addr, corsHandler)
}
