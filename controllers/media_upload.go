package controllers

import (
	"bytes"
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"VibeShared/utils/fileformat"

	aws2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const maxUploadBytes = 5_000_000

var (
	errUploadTooLarge = errors.New("file too large")
	errUploadNotMedia = errors.New("unsupported media type")
)

// uploadMediaToS3 stores an uploaded image or video under the given key
// prefix and returns the generated file name. The bucket and region come
// from the environment; path-style addressing is used so the same code
// works against localstack in development.
func uploadMediaToS3(file *multipart.FileHeader, prefix string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	size := file.Size
	if size > maxUploadBytes {
		return "", errUploadTooLarge
	}

	buf := make([]byte, size)
	if _, err := f.Read(buf); err != nil {
		return "", err
	}
	fileType := http.DetectContentType(buf)
	if !strings.HasPrefix(fileType, "image/") && !strings.HasPrefix(fileType, "video/") {
		return "", errUploadNotMedia
	}

	filePath := fileformat.UniqueFormat(file.Filename)
	key := prefix + filePath

	rawBucket := os.Getenv("S3_BUCKET")
	bucketName := strings.SplitN(rawBucket, "/", 2)[0]
	if bucketName == "" {
		log.Printf("S3_BUCKET env var is empty or invalid: '%s'", rawBucket)
		return "", errors.New("server configuration error")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	cfg, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		log.Printf("AWS config load error: %v", err)
		return "", err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:        aws2.String(bucketName),
		Key:           aws2.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws2.Int64(size),
		ContentType:   aws2.String(fileType),
	})
	if err != nil {
		log.Printf("S3 upload failed: %v", err)
		return "", err
	}
	return filePath, nil
}
