package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gonewx/martianblue/pkg/config"
)

// 前端按页面名读取背景预设
func (s *Server) handleListBackdrops(c *gin.Context) {
	names, err := config.PresetNames()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to list backdrops", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backdrops": names})
}

func (s *Server) handleGetBackdrop(c *gin.Context) {
	cfg, err := config.LoadPreset(c.Param("name"))
	if err != nil {
		writeError(c, http.StatusNotFound, "Backdrop not found", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
