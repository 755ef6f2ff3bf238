package misc

import (
	"net/http"

	"github.com/2beens/gympro/pkg"

	"github.com/gorilla/mux"
)

type HealthResponse struct {
	Status       string `json:"status"`
	StoreBackend string `json:"storeBackend"`
	Version      string `json:"version,omitempty"`
}

type Handler struct {
	versionInfo  string
	storeBackend string
}

func NewHandler(versionInfo, storeBackend string) *Handler {
	return &Handler{
		versionInfo:  versionInfo,
		storeBackend: storeBackend,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, HealthResponse{
		Status:       "ok",
		StoreBackend: handler.storeBackend,
		Version:      handler.versionInfo,
	}, http.StatusOK)
}
