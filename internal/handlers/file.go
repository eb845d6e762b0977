package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

type FileHandler struct {
	Files *gridfs.Bucket
}

// Download streams a remark attachment out of GridFS.
func (h *FileHandler) Download(ctx *gin.Context) {
	blobID, err := primitive.ObjectIDFromHex(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	stream, err := h.Files.OpenDownloadStream(blobID)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer stream.Close()

	file := stream.GetFile()

	contentType := "application/octet-stream"

	if len(file.Metadata) > 0 {
		if value, err := file.Metadata.LookupErr("content_type"); err == nil {
			if stored, ok := value.StringValueOK(); ok && stored != "" {
				contentType = stored
			}
		}
	}

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
	}

	ctx.DataFromReader(http.StatusOK, file.Length, contentType, stream, extraHeaders)
}
