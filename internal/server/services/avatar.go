package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/common"
	sc "github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const avatarPrefix = "avatars/"

var avatarExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// AvatarService hands out presigned URLs so that clients move profile
// images to and from S3-compatible storage directly. The resulting object
// key is what UserService.UpdateProfile stores as the image reference.
type AvatarService struct {
	config *sc.Config
}

func NewAvatarService(config *sc.Config) *AvatarService {
	return &AvatarService{config: config}
}

// Enabled reports whether object storage is configured.
func (s *AvatarService) Enabled() bool {
	return s.config.AvatarsEnabled()
}

// AvatarKey builds a fresh object key for an upload of filename by userID.
func AvatarKey(userID int64, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := avatarExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", common.ErrorValidation, ext)
	}
	return fmt.Sprintf("%s%d/%s%s", avatarPrefix, userID, uuid.New(), ext), nil
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *AvatarService) validity() time.Duration {
	if s.config.AvatarURLValidity > 0 {
		return s.config.AvatarURLValidity
	}
	return 15 * time.Minute
}

// PresignUpload returns a new object key for userID's avatar and a presigned
// PUT URL for it.
func (s *AvatarService) PresignUpload(ctx context.Context, userID int64, filename string) (string, string, error) {
	if !s.Enabled() {
		return "", "", common.ErrorNotConfigured
	}

	key, err := AvatarKey(userID, filename)
	if err != nil {
		return "", "", err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	contentType := avatarExtensions[strings.ToLower(path.Ext(key))]

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(s.validity()))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignDownload returns a presigned GET URL for an avatar key.
func (s *AvatarService) PresignDownload(ctx context.Context, key string) (string, error) {
	if !s.Enabled() {
		return "", common.ErrorNotConfigured
	}
	if !strings.HasPrefix(key, avatarPrefix) {
		return "", fmt.Errorf("%w: not an avatar key", common.ErrorValidation)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.validity()))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
