package api

import (
	"net/http"

	voiceCallHandler "callbridge/internal/voicecall/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router           *gin.RouterGroup
	voiceCallHandler voiceCallHandler.Handler
	health           func() gin.H
}

// New wires the routes. health reports live state for the health endpoint and may be nil.
func New(router *gin.RouterGroup, voiceCallHandler voiceCallHandler.Handler, health func() gin.H) API {
	return API{
		router:           router,
		voiceCallHandler: voiceCallHandler,
		health:           health,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		apiGroup.POST("/realtime/webhook", a.voiceCallHandler.HandleRealtimeWebhook)
	}
	phoneGroup := apiGroup.Group("/phone", a.voiceCallHandler.HandleTwilioSignature)
	{
		phoneGroup.POST("/voice", a.voiceCallHandler.HandleVoice)
		phoneGroup.GET("/media-stream", a.voiceCallHandler.HandleMediaStream)
	}
	escalationGroup := apiGroup.Group("/escalation/:transferId", a.voiceCallHandler.HandleTwilioSignature)
	{
		escalationGroup.POST("/accept", a.voiceCallHandler.HandleStaffAccept)
		escalationGroup.POST("/status", a.voiceCallHandler.HandleStaffStatus)
		escalationGroup.POST("/conference", a.voiceCallHandler.HandleConferenceEvent)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		body := gin.H{"message": "ok"}
		if a.health != nil {
			for k, v := range a.health() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})
}
