package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/anjan-ust/task-weaver-main/internal/models"
	"github.com/anjan-ust/task-weaver-main/internal/policy"
	"github.com/anjan-ust/task-weaver-main/internal/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

type RemarkHandler struct {
	DB      *gorm.DB
	Remarks *mongo.Collection
	Files   *gridfs.Bucket
}

// storeAttachment uploads the file bytes to GridFS and returns the blob
// id. The blob is written before the remark document that references it;
// a crash in between leaves an orphan, which is acceptable.
func (h *RemarkHandler) storeAttachment(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()

	if err != nil {
		return "", apperr.Storage(err)
	}
	defer file.Close()

	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"content_type": header.Header.Get("Content-Type"),
	})

	blobID, err := h.Files.UploadFromStream(header.Filename, file, uploadOpts)

	if err != nil {
		return "", apperr.Storage(err)
	}

	return blobID.Hex(), nil
}

// dropAttachment removes a blob best-effort: a missing or failing delete
// is logged and swallowed, never surfaced.
func (h *RemarkHandler) dropAttachment(fileID string) {
	if fileID == "" {
		return
	}

	blobID, err := primitive.ObjectIDFromHex(fileID)

	if err != nil {
		return
	}

	if err := h.Files.Delete(blobID); err != nil {
		log.Printf("best-effort attachment delete failed for %s: %v", fileID, err)
	}
}

func (h *RemarkHandler) findRemark(ctx *gin.Context, rawID string) (*models.Remark, error) {
	remarkID, err := primitive.ObjectIDFromHex(rawID)

	if err != nil {
		return nil, apperr.New(apperr.InvalidPayload, "Invalid remark id")
	}

	var remark models.Remark

	err = h.Remarks.FindOne(ctx.Request.Context(), bson.M{"_id": remarkID}).Decode(&remark)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "Remark not found")
		}
		return nil, apperr.Storage(err)
	}

	return &remark, nil
}

// Create adds a remark to a task. Any authenticated role may remark at
// any task phase; the optional attachment goes to GridFS first.
func (h *RemarkHandler) Create(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	declared, err := utils.DeclaredRole(ctx)

	if err != nil {
		fail(ctx, err)
		return
	}

	if err := policy.RequireDeclared(declared, actor.Roles); err != nil {
		fail(ctx, err)
		return
	}

	taskID, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	comment := ctx.PostForm("comment")

	if comment == "" {
		fail(ctx, apperr.New(apperr.InvalidPayload, "Comment is required"))
		return
	}

	if len(comment) > maxCommentLength {
		fail(ctx, apperr.New(apperr.InvalidPayload, "Comment exceeds 1000 characters"))
		return
	}

	var task models.Task

	if err := h.DB.Where("t_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(ctx, apperr.New(apperr.NotFound, "Task Not Found"))
		} else {
			fail(ctx, apperr.Storage(err))
		}
		return
	}

	remark := models.Remark{
		TaskID:    taskID,
		Comment:   comment,
		CreatedBy: actor.EID,
		Role:      string(declared),
		CreatedAt: time.Now().UTC(),
	}

	if header, err := ctx.FormFile("file"); err == nil {
		fileID, err := h.storeAttachment(header)

		if err != nil {
			fail(ctx, err)
			return
		}

		remark.FileID = fileID
		remark.FileName = header.Filename
	}

	result, err := h.Remarks.InsertOne(ctx.Request.Context(), remark)

	if err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	remark.ID = result.InsertedID.(primitive.ObjectID)

	ctx.JSON(http.StatusCreated, gin.H{"detail": "Remark Added Successfully", "remark": remark})
}

func (h *RemarkHandler) ListByTask(ctx *gin.Context) {
	taskID, err := parseID(ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	cursor, err := h.Remarks.Find(ctx.Request.Context(), bson.M{"task_id": taskID})

	if err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	remarks := make([]models.Remark, 0)

	if err := cursor.All(ctx.Request.Context(), &remarks); err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	ctx.JSON(http.StatusOK, remarks)
}

// Update replaces the comment text and/or swaps the attachment. Only the
// author or an Admin may update; a swapped-out blob is deleted
// best-effort before the new one is stored.
func (h *RemarkHandler) Update(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	remark, err := h.findRemark(ctx, ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	if err := policy.CanManageRemark(remark, actor.EID, actor.Roles); err != nil {
		fail(ctx, err)
		return
	}

	update := bson.M{}

	if comment := ctx.PostForm("comment"); comment != "" {
		if len(comment) > maxCommentLength {
			fail(ctx, apperr.New(apperr.InvalidPayload, "Comment exceeds 1000 characters"))
			return
		}
		update["comment"] = comment
	}

	if header, err := ctx.FormFile("file"); err == nil {
		h.dropAttachment(remark.FileID)

		fileID, err := h.storeAttachment(header)

		if err != nil {
			fail(ctx, err)
			return
		}

		update["file_id"] = fileID
		update["file_name"] = header.Filename
	}

	if len(update) == 0 {
		fail(ctx, apperr.New(apperr.InvalidPayload, "Nothing to update"))
		return
	}

	update["updated_at"] = time.Now().UTC()

	_, err = h.Remarks.UpdateByID(ctx.Request.Context(), remark.ID, bson.M{"$set": update})

	if err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	updated, err := h.findRemark(ctx, remark.ID.Hex())

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Remark Updated Successfully", "remark": updated})
}

// Delete removes a remark and its attachment. The blob delete is
// best-effort: its absence never blocks removing the remark itself.
func (h *RemarkHandler) Delete(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	remark, err := h.findRemark(ctx, ctx.Param("id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	if err := policy.CanManageRemark(remark, actor.EID, actor.Roles); err != nil {
		fail(ctx, err)
		return
	}

	h.dropAttachment(remark.FileID)

	if _, err := h.Remarks.DeleteOne(ctx.Request.Context(), bson.M{"_id": remark.ID}); err != nil {
		fail(ctx, apperr.Storage(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"detail": "Remark and file deleted successfully", "remark_id": remark.ID.Hex()})
}
