package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rbroggi/matchup/internal/actors/websocket"
	"github.com/rbroggi/matchup/internal/core/model"
)

// ProjectUsecase is the project lifecycle functionality.
type ProjectUsecase interface {
	ListProjects(ctx context.Context, args model.ListProjectsArgs) (*model.ListProjectsResponse, error)
	CreateProject(ctx context.Context, args model.CreateProjectArgs) (*model.CreateProjectResponse, error)
	UpdateProject(ctx context.Context, args model.UpdateProjectArgs) error
	AddAttribute(ctx context.Context, args model.ProjectAttributeArgs) error
	DeleteAttribute(ctx context.Context, args model.ProjectAttributeArgs) error
	DeleteProject(ctx context.Context, args model.DeleteProjectArgs) error
}

// MatchingUsecase is the swipe, accept and reject functionality.
type MatchingUsecase interface {
	ListMatchOptions(ctx context.Context, args model.ListMatchOptionsArgs) (*model.ListMatchOptionsResponse, error)
	Swipe(ctx context.Context, args model.SwipeArgs) error
	UndoAllLeftSwipes(ctx context.Context, args model.UndoLeftSwipesArgs) error
	AcceptUser(ctx context.Context, args model.DecisionArgs) error
	RejectUser(ctx context.Context, args model.DecisionArgs) error
}

// ChatUsecase is the chat functionality.
type ChatUsecase interface {
	websocket.ChatUsecase
	GetPage(ctx context.Context, args model.GetPageArgs) (*model.GetPageResponse, error)
}

// UserUsecase is the profile functionality.
type UserUsecase interface {
	GetUser(ctx context.Context, viewerID string) (*model.User, error)
	AddAttribute(ctx context.Context, args model.UserAttributeArgs) error
	DeleteAttribute(ctx context.Context, args model.UserAttributeArgs) error
}

// NotificationUsecase is the unread summary functionality.
type NotificationUsecase interface {
	Summary(ctx context.Context, viewerID string) (*model.UnreadSummary, error)
}

// ChatHub upgrades chat connections.
type ChatHub interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string, chat websocket.ChatUsecase)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServerArgs contain the mandatory arguments of the Server.
type ServerArgs struct {
	Projects      ProjectUsecase
	Matching      MatchingUsecase
	Chat          ChatUsecase
	Users         UserUsecase
	Notifications NotificationUsecase
	Hub           ChatHub
	Authenticator *Authenticator
	Pinger        Pinger
}

// Server is the HTTP surface of the application.
type Server struct {
	projects      ProjectUsecase
	matching      MatchingUsecase
	chat          ChatUsecase
	users         UserUsecase
	notifications NotificationUsecase
	hub           ChatHub
	authenticator *Authenticator
	pinger        Pinger
}

// NewServer creates a new Server.
func NewServer(args ServerArgs) *Server {
	return &Server{
		projects:      args.Projects,
		matching:      args.Matching,
		chat:          args.Chat,
		users:         args.Users,
		notifications: args.Notifications,
		hub:           args.Hub,
		authenticator: args.Authenticator,
		pinger:        args.Pinger,
	}
}

// Handler returns the routed and instrumented handler. Routes are registered on a single router
// so that method mismatches are reported as 405.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	router.Use(instrument, s.authenticator.Middleware)

	router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	router.HandleFunc("/project/get", s.listProjects).Methods(http.MethodGet)
	router.HandleFunc("/project/get-match-options", s.listMatchOptions).Methods(http.MethodGet)
	router.HandleFunc("/project/unread", s.unreadSummary).Methods(http.MethodGet)
	router.HandleFunc("/project/add", s.createProject).Methods(http.MethodPost)
	router.HandleFunc("/project/delete/{id}", s.deleteProject).Methods(http.MethodPost)
	router.HandleFunc("/project/update", s.updateProject).Methods(http.MethodPost)
	router.HandleFunc("/project/attribute/add", s.addProjectAttribute).Methods(http.MethodPost)
	router.HandleFunc("/project/attribute/delete", s.deleteProjectAttribute).Methods(http.MethodPost)
	router.HandleFunc("/project/swipeLeft", s.swipe(model.SwipeLeft)).Methods(http.MethodPost)
	router.HandleFunc("/project/swipeRight", s.swipe(model.SwipeRight)).Methods(http.MethodPost)
	router.HandleFunc("/project/acceptUser", s.acceptUser).Methods(http.MethodPost)
	router.HandleFunc("/project/rejectUser", s.rejectUser).Methods(http.MethodPost)
	router.HandleFunc("/project/undo-all-left-swipes", s.undoAllLeftSwipes).Methods(http.MethodPost)

	router.HandleFunc("/chat/getpage", s.getPage).Methods(http.MethodGet)
	router.HandleFunc("/chat/ws", s.serveWS).Methods(http.MethodGet)

	router.HandleFunc("/user/me", s.me).Methods(http.MethodGet)
	router.HandleFunc("/user/attribute/add", s.addUserAttribute).Methods(http.MethodPost)
	router.HandleFunc("/user/attribute/delete", s.deleteUserAttribute).Methods(http.MethodPost)

	return router
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Route not found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Store unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	viewer := Viewer(r.Context())
	if viewer == "" {
		writeError(w, r, model.Errorf(model.ErrAuthRequired, "User is required"))
		return
	}
	s.hub.ServeWS(w, r, viewer, s.chat)
}
