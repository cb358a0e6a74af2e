package handlers

import (
	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/internal/studio"
	"github.com/gin-gonic/gin"
)

// noticeVariant maps loose variant names onto the toast styles.
func noticeVariant(variant string) string {
	switch variant {
	case "error", "destructive":
		return studio.VariantError
	case "warning":
		return studio.VariantWarning
	case "info":
		return studio.VariantInfo
	default:
		return studio.VariantSuccess
	}
}

func noticeTitle(variant string) string {
	switch variant {
	case studio.VariantError:
		return constant.NoticeTitleError
	case studio.VariantWarning:
		return constant.NoticeTitleWarning
	case studio.VariantInfo:
		return constant.NoticeTitleInfo
	default:
		return constant.NoticeTitleSuccess
	}
}

// respondNotice writes a notice as the JSON body.
func respondNotice(c *gin.Context, status int, variant, description string) {
	v := noticeVariant(variant)
	c.JSON(status, studio.NewNotice(v, noticeTitle(v), description))
}
