package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unnastore/unna-api/repositories"
	"github.com/unnastore/unna-api/services"
)

type ProductController struct {
	products *services.ProductService
	s3Bucket string
	log      zerolog.Logger
}

func NewProductController(products *services.ProductService, s3Bucket string, log zerolog.Logger) *ProductController {
	return &ProductController{
		products: products,
		s3Bucket: s3Bucket,
		log:      log.With().Str("controller", "product").Logger(),
	}
}

func (c *ProductController) List(ctx *gin.Context) {
	filter := repositories.ProductFilter{Search: ctx.Query("search")}
	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "12"))

	if raw := ctx.Query("categoryId"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if raw := ctx.Query("featured"); raw != "" {
		featured := raw == "true"
		filter.Featured = &featured
	}

	products, count, err := c.products.List(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{"total": count, "page": filter.Page, "limit": filter.Limit},
	})
}

func (c *ProductController) GetBySlug(ctx *gin.Context) {
	product, err := c.products.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (c *ProductController) ListVariants(ctx *gin.Context) {
	product, err := c.products.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	variants, err := c.products.ListVariants(ctx.Request.Context(), product.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"variants": variants})
}

func (c *ProductController) Create(ctx *gin.Context) {
	var input services.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	product, err := c.products.Create(ctx.Request.Context(), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

func (c *ProductController) Update(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid product id"})
		return
	}

	var input services.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	product, err := c.products.Update(ctx.Request.Context(), uint(productID), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (c *ProductController) Delete(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid product id"})
		return
	}

	if err := c.products.Delete(ctx.Request.Context(), uint(productID)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (c *ProductController) AddVariant(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid product id"})
		return
	}

	var input services.VariantInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	variant, err := c.products.AddVariant(ctx.Request.Context(), uint(productID), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, variant)
}

func (c *ProductController) uploader(ctx context.Context) (*manager.Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return manager.NewUploader(s3.NewFromConfig(cfg)), nil
}

// UploadImages handles POST /products/:id/images: multipart files go to S3,
// resulting URLs are persisted on the product.
func (c *ProductController) UploadImages(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid product id"})
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid form data"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "no files uploaded"})
		return
	}

	if c.s3Bucket == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "image storage not configured"})
		return
	}

	uploader, err := c.uploader(ctx.Request.Context())
	if err != nil {
		c.log.Error().Err(err).Msg("failed to configure S3 uploader")
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to configure image storage"})
		return
	}

	var uploaded []string
	var failed []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			c.log.Error().Err(openErr).Str("file", file.Filename).Msg("failed to open upload")
			failed = append(failed, file.Filename)
			continue
		}

		key := fmt.Sprintf("products/%d/%s%s", productID, uuid.NewString(), filepath.Ext(file.Filename))
		result, uploadErr := uploader.Upload(ctx.Request.Context(), &s3.PutObjectInput{
			Bucket:      aws.String(c.s3Bucket),
			Key:         aws.String(key),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			c.log.Error().Err(uploadErr).Str("file", file.Filename).Msg("failed to upload image")
			failed = append(failed, file.Filename)
			continue
		}

		if _, err := c.products.AddImage(ctx.Request.Context(), uint(productID), result.Location, len(uploaded) == 0); err != nil {
			respondError(ctx, err)
			return
		}
		uploaded = append(uploaded, result.Location)
	}

	response := gin.H{"message": "files processed", "urls": uploaded}
	if len(failed) > 0 {
		response["failed"] = failed
	}
	ctx.JSON(http.StatusOK, response)
}
