package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/granjadata/avicola_backend/actions"
	"github.com/granjadata/avicola_backend/assistant"
	"github.com/granjadata/avicola_backend/config"
)

const systemPrompt = `You are the assistant of a poultry farm management system.
You help the team manage farms, sheds, genetic lines, breeder batches, broiler
batches, weekly follow-ups and traceability links.

When the user asks to create, change, list or look up something, call the
matching tool with the arguments you can extract from the conversation. Dates
must be in YYYY-MM-DD format. When the user names a farm, shed or genetic line
instead of giving its id, pass the name fields and the system will resolve
them. Never invent ids. If information is missing, ask for it instead of
guessing. Answer in the user's language.`

func chatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Messages []assistant.Message `json:"messages"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || len(body.Messages) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide at least one message"})
			return
		}
		if llmClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
			return
		}
		ctx := c.Request.Context()

		reply, err := llmClient.Propose(ctx, systemPrompt, body.Messages, apiRegistry.ToolSpecs())
		if err != nil {
			config.LogError(config.GetLogger(), "server", "chatHandler", "propose", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant request failed"})
			return
		}

		if reply.ToolCall == nil {
			c.JSON(http.StatusOK, gin.H{"type": "message", "content": reply.Content})
			return
		}

		args := actions.NormalizeDateArgs(reply.ToolCall.Arguments)
		preview, err := apiRegistry.Preview(ctx, reply.ToolCall.Name, args)
		if err != nil {
			var schemaErr *actions.SchemaViolationError
			var kindErr *actions.UnknownKindError
			if errors.As(err, &schemaErr) || errors.As(err, &kindErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			config.LogError(config.GetLogger(), "server", "chatHandler", reply.ToolCall.Name, nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register the proposed action"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"type":             "preview",
			"toolName":         reply.ToolCall.Name,
			"actionId":         preview.ActionID,
			"action":           preview.Action,
			"preview":          preview.Preview,
			"assistantThought": reply.Content,
		})
	}
}
