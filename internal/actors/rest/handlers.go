package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rbroggi/matchup/internal/core/model"
)

type updateProjectRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type projectAttributeRequest struct {
	ID        string `json:"id"`
	Attribute string `json:"attribute"`
}

type swipeRequest struct {
	ProjectID string `json:"projectId"`
}

type decisionRequest struct {
	ProjectID    string `json:"projectId"`
	Collaborator string `json:"collaborator"`
}

type userAttributeRequest struct {
	Attribute string `json:"attribute"`
}

type createProjectResponse struct {
	Message string        `json:"message"`
	Project model.Project `json:"project"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	res, err := s.projects.ListProjects(r.Context(), model.ListProjectsArgs{ViewerID: Viewer(r.Context())})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listMatchOptions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageSize, err := strconv.Atoi(query.Get("pageSize"))
	if err != nil {
		writeError(w, r, model.Errorf(model.ErrInvalidArgument, "Invalid PageSize"))
		return
	}
	// both ?attributes=a&attributes=b and ?attributes=a,b
	attributes := []string{}
	for _, value := range query["attributes"] {
		for _, attribute := range strings.Split(value, ",") {
			if attribute = strings.TrimSpace(attribute); attribute != "" {
				attributes = append(attributes, attribute)
			}
		}
	}
	res, err := s.matching.ListMatchOptions(r.Context(), model.ListMatchOptionsArgs{
		ViewerID:   Viewer(r.Context()),
		Attributes: attributes,
		PageSize:   pageSize,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) unreadSummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.notifications.Summary(r.Context(), Viewer(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	res, err := s.projects.CreateProject(r.Context(), model.CreateProjectArgs{ViewerID: Viewer(r.Context())})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createProjectResponse{Message: "Project added successfully.", Project: res.Project})
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	err := s.projects.DeleteProject(r.Context(), model.DeleteProjectArgs{
		ViewerID:  Viewer(r.Context()),
		ProjectID: mux.Vars(r)["id"],
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Project deleted successfully."})
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := s.projects.UpdateProject(r.Context(), model.UpdateProjectArgs{
		ViewerID:    Viewer(r.Context()),
		ProjectID:   req.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Project updated successfully."})
}

func (s *Server) addProjectAttribute(w http.ResponseWriter, r *http.Request) {
	s.changeProjectAttribute(w, r, s.projects.AddAttribute, "Attribute added succesfully.")
}

func (s *Server) deleteProjectAttribute(w http.ResponseWriter, r *http.Request) {
	s.changeProjectAttribute(w, r, s.projects.DeleteAttribute, "Attribute deleted succesfully.")
}

func (s *Server) changeProjectAttribute(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, args model.ProjectAttributeArgs) error, message string) {
	var req projectAttributeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := change(r.Context(), model.ProjectAttributeArgs{
		ViewerID:  Viewer(r.Context()),
		ProjectID: req.ID,
		Attribute: req.Attribute,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

func (s *Server) swipe(direction model.SwipeDirection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req swipeRequest
		if err := decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		err := s.matching.Swipe(r.Context(), model.SwipeArgs{
			ViewerID:  Viewer(r.Context()),
			ProjectID: req.ProjectID,
			Direction: direction,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Added Swipe to Project"})
	}
}

func (s *Server) acceptUser(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, s.matching.AcceptUser, "Successfully added collaborator to project")
}

func (s *Server) rejectUser(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, s.matching.RejectUser, "Successfully rejected collaborator from project")
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request, decision func(ctx context.Context, args model.DecisionArgs) error, message string) {
	var req decisionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := decision(r.Context(), model.DecisionArgs{
		ViewerID:       Viewer(r.Context()),
		ProjectID:      req.ProjectID,
		CollaboratorID: req.Collaborator,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

func (s *Server) undoAllLeftSwipes(w http.ResponseWriter, r *http.Request) {
	if err := s.matching.UndoAllLeftSwipes(r.Context(), model.UndoLeftSwipesArgs{ViewerID: Viewer(r.Context())}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageNum, errNum := strconv.Atoi(query.Get("pageNum"))
	pageSize, errSize := strconv.Atoi(query.Get("pageSize"))
	if errNum != nil || errSize != nil {
		writeError(w, r, model.Errorf(model.ErrInvalidArgument, "Invalid pageNum and pageSize"))
		return
	}
	createdAtBefore, err := time.Parse(time.RFC3339Nano, query.Get("createdAtBefore"))
	if err != nil {
		writeError(w, r, model.Errorf(model.ErrInvalidArgument, "Invalid createdAtBefore"))
		return
	}
	res, err := s.chat.GetPage(r.Context(), model.GetPageArgs{
		ViewerID:        Viewer(r.Context()),
		ProjectID:       query.Get("projectId"),
		CreatedAtBefore: createdAtBefore,
		PageNum:         pageNum,
		PageSize:        pageSize,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), Viewer(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) addUserAttribute(w http.ResponseWriter, r *http.Request) {
	s.changeUserAttribute(w, r, s.users.AddAttribute, "Attribute added succesfully.")
}

func (s *Server) deleteUserAttribute(w http.ResponseWriter, r *http.Request) {
	s.changeUserAttribute(w, r, s.users.DeleteAttribute, "Attribute deleted succesfully.")
}

func (s *Server) changeUserAttribute(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, args model.UserAttributeArgs) error, message string) {
	var req userAttributeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := change(r.Context(), model.UserAttributeArgs{ViewerID: Viewer(r.Context()), Attribute: req.Attribute}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}
