package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gonewx/martianblue/pkg/models"
	"github.com/gonewx/martianblue/pkg/store"
)

// ContactResponse 创建或更新联系请求的响应体
type ContactResponse struct {
	Message string         `json:"message"`
	Contact models.Contact `json:"contact"`
}

func (s *Server) handleCreateContact(c *gin.Context) {
	var in models.ContactInput
	if err := decodeBody(c, &in); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if missing := in.Missing(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, APIError{
			Error:   "Please provide name, phone, and email",
			Missing: missing,
		})
		return
	}

	contact, err := s.repo.CreateContact(c.Request.Context(), in)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to submit contact form", err)
		return
	}
	c.JSON(http.StatusCreated, ContactResponse{
		Message: "Contact form submitted successfully",
		Contact: contact,
	})
}

func (s *Server) handleListContacts(c *gin.Context) {
	contacts, err := s.repo.ListContacts(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to fetch contacts", err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (s *Server) handleGetContact(c *gin.Context) {
	contact, err := s.repo.GetContact(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Contact not found", nil)
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to fetch contact", err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (s *Server) handleUpdateContactStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(c, &body); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	status, err := models.ParseContactStatus(body.Status)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid status", err)
		return
	}

	contact, err := s.repo.UpdateContactStatus(c.Request.Context(), c.Param("id"), status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Contact not found", nil)
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to update contact status", err)
		return
	}
	c.JSON(http.StatusOK, ContactResponse{
		Message: "Contact status updated successfully",
		Contact: contact,
	})
}

func (s *Server) handleDeleteContact(c *gin.Context) {
	err := s.repo.DeleteContact(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Contact not found", nil)
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to delete contact", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Contact deleted successfully"})
}
