package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/him1art1-dotcom/had-sub003/internal/handler/http/response"
)

type StudentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type studentHandlerImpl struct {
	studentService student.StudentService
}

func NewStudentHandler(studentService student.StudentService) StudentHandler {
	return &studentHandlerImpl{
		studentService: studentService,
	}
}

// Create implements StudentHandler.
func (h *studentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req student.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.studentService.CreateStudent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Student created", result)
}

// Get implements StudentHandler.
func (h *studentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.studentService.GetStudent(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements StudentHandler.
func (h *studentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := student.StudentFilter{}

	if grade := r.URL.Query().Get("grade"); grade != "" {
		filter.Grade = &grade
	}
	if class := r.URL.Query().Get("class"); class != "" {
		filter.Class = &class
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter.Search = &search
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = limit
	}

	result, err := h.studentService.ListStudents(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Students, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
	})
}

// Update implements StudentHandler.
func (h *studentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req student.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.studentService.UpdateStudent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Student updated", result)
}

// Delete implements StudentHandler.
func (h *studentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.studentService.DeleteStudent(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Student deleted", nil)
}
