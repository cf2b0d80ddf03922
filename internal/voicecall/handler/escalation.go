package handler

import (
	"net/http"

	"callbridge/internal/apierrors"
	"callbridge/internal/escalation"

	"github.com/gin-gonic/gin"
)

type staffStatusForm struct {
	CallSid    string `form:"CallSid"`
	CallStatus string `form:"CallStatus" binding:"required"`
}

type conferenceForm struct {
	StatusCallbackEvent string `form:"StatusCallbackEvent" binding:"required"`
	ConferenceSid       string `form:"ConferenceSid"`
	CallSid             string `form:"CallSid"`
	ParticipantLabel    string `form:"ParticipantLabel"`
}

// HandleStaffAccept is the staff leg's Gather action. It returns TwiML.
func (h *Handler) HandleStaffAccept(c *gin.Context) {
	if !h.escalationEnabled(c) {
		return
	}
	twimlResult, err := h.escalation.HandleStaffAccept(c.Request.Context(), c.Param("transferId"), c.Query("token"), c.PostForm("Digits"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/xml", []byte(twimlResult))
}

// HandleStaffStatus receives status callbacks for the staff leg.
func (h *Handler) HandleStaffStatus(c *gin.Context) {
	if !h.escalationEnabled(c) {
		return
	}
	var form staffStatusForm
	if err := c.ShouldBind(&form); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	err := h.escalation.HandleStaffStatus(c.Request.Context(), c.Param("transferId"), c.Query("token"), escalation.StaffStatus{
		CallSid:    form.CallSid,
		CallStatus: form.CallStatus,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleConferenceEvent receives conference status callbacks.
func (h *Handler) HandleConferenceEvent(c *gin.Context) {
	if !h.escalationEnabled(c) {
		return
	}
	var form conferenceForm
	if err := c.ShouldBind(&form); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	err := h.escalation.HandleConferenceEvent(c.Request.Context(), c.Param("transferId"), c.Query("token"), escalation.ConferenceEvent{
		Event:            form.StatusCallbackEvent,
		ConferenceSid:    form.ConferenceSid,
		CallSid:          form.CallSid,
		ParticipantLabel: form.ParticipantLabel,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) escalationEnabled(c *gin.Context) bool {
	if h.escalation == nil {
		apierrors.RespondWithError(c, escalation.ErrNotConfigured)
		return false
	}
	return true
}
