package httpserver

import (
	"net/http"
	"strings"

	"crm-backoffice/internal/importer"
	"github.com/gin-gonic/gin"
)

// maxImportSize caps uploaded CSV files at 512KB.
const maxImportSize = 512 * 1024

func (h *api) importCustomers(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "No file uploaded"})
		return
	}
	if header.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "File too large. Maximum size is 512KB."})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(c, err, "Customer not found")
		return
	}
	defer file.Close()

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	result, err := importer.NewCSVImporter(file, h.deps.ImporterRepo).Run(ctx)
	if err != nil {
		h.logger.WithError(err).Error("customer import failed")
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Import failed", "error": err.Error()})
		return
	}

	var skipped interface{}
	if len(result.Skipped) > 0 {
		skipped = "Skipped customers with intNr: " + strings.Join(result.Skipped, ", ")
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":      "Customers imported successfully",
		"imported": result.Imported,
		"skipped":  skipped,
	})
}
