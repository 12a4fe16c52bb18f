package api

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/opark001/vertex-gemini-web/internal/constants"
)

// NewRouter builds the engine with every API route, the /images directory
// and the static site fallback. Empty or missing directories are skipped.
func NewRouter(h *Handler, staticDir, imagesDir string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(), cors.Default(), BodyLimit(constants.MaxBodyBytes))

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteConfig, h.Config)
		apiRoutes.POST(constants.RouteGenerateText, h.GenerateText)
		apiRoutes.POST(constants.RouteGenerateImage, h.GenerateImage)
		apiRoutes.GET(constants.RoutePrompt, h.Prompt)
		apiRoutes.POST(constants.RouteBattleSimulate, h.BattleSimulate)
		apiRoutes.POST(constants.RouteBattle, h.Battle)
		apiRoutes.POST(constants.RouteBattleOutcome, h.BattleOutcome)
		apiRoutes.GET(constants.RouteStage, h.GetStage)
		apiRoutes.POST(constants.RouteStageReset, h.ResetStage)
		apiRoutes.GET(constants.RouteRosters, h.ListRosters)
		apiRoutes.GET(constants.RouteBattles, h.ListBattles)
		apiRoutes.GET(constants.RouteVersion, Version)
	}

	if isDir(imagesDir) {
		router.Static(constants.RouteImages, imagesDir)
	}
	if !isDir(staticDir) {
		staticDir = ""
	}
	router.NoRoute(SPA(staticDir))
	return router
}

func isDir(p string) bool {
	if p == "" {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
