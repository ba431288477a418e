package httpx

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error responde el cuerpo estándar de error {"error": mensaje}.
func Error(c *gin.Context, status int, format string, args ...any) {
	c.JSON(status, gin.H{"error": fmt.Sprintf(format, args...)})
}

// ServerError es la respuesta 500 genérica; el detalle acompaña al mensaje
// para diagnóstico.
func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Error inesperado en el servidor - Intente más tarde, o contacte a su administrador",
		"detalle": err.Error(),
	})
}
