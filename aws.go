package mealinfo

// api key lookup and raw response uploads on aws

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

const DefaultDumpS3Prefix = "mealinfo/dump"

var awsConfigMutex = &sync.Mutex{}

// keyed by the configured region, "" for the sdk's default chain
var loadedAWSConfigs = map[string]*aws.Config{}

func LoadAWSConfig(region string) (*aws.Config, error) {
	awsConfigMutex.Lock()
	defer awsConfigMutex.Unlock()

	if cfg, ok := loadedAWSConfigs[region]; ok {
		return cfg, nil
	}

	opts := make([]func(*awsconfig.LoadOptions) error, 0)
	if len(region) > 0 {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	load, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, err
	}

	loadedAWSConfigs[region] = &load
	return &load, nil
}

// HasAWSCredentials is true when the sdk found credentials and a region.
func HasAWSCredentials(region string) bool {
	cfg, err := LoadAWSConfig(region)
	return err == nil && cfg.Credentials != nil && len(cfg.Region) > 0
}

// LookupAPIKey reads the NEIS key from the SecureString parameter named by
// api_key_ssm_param.
func LookupAPIKey(config *Config) (string, error) {
	if len(config.ApiKeySSMParam) == 0 {
		return "", fmt.Errorf("api_key_ssm_param not configured")
	}

	cfg, err := LoadAWSConfig(config.AWSRegion)
	if err != nil {
		return "", err
	}

	name := config.ApiKeySSMParam
	output, err := ssm.NewFromConfig(*cfg).GetParameter(context.TODO(), &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: true})

	if err != nil {
		return "", fmt.Errorf("AWS parameter '%s': %w", name, err)
	}

	if output.Parameter == nil || output.Parameter.Value == nil {
		return "", fmt.Errorf("AWS parameter '%s' has no value", name)
	}

	key := strings.TrimSpace(*output.Parameter.Value)
	if len(key) == 0 {
		return "", fmt.Errorf("AWS parameter '%s' is blank", name)
	}

	return key, nil
}

var s3mutex = &sync.Mutex{}
var s3client *s3.Client

// DumpObjectKey places a dump file under the configured prefix.
func DumpObjectKey(config *Config, fileName string) string {
	prefix := strings.Trim(config.DumpS3Prefix, "/")
	if len(prefix) == 0 {
		return fileName
	}
	return path.Join(prefix, fileName)
}

func dumpContentType(body []byte) string {
	if json.Valid(body) {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// UploadDump stores a raw response in dump_bucket, returns its url.
func UploadDump(config *Config, fileName string, body []byte) (string, error) {
	s3mutex.Lock()
	defer s3mutex.Unlock()

	cfg, err := LoadAWSConfig(config.AWSRegion)
	if err != nil {
		return "", err
	}

	if s3client == nil {
		s3client = s3.NewFromConfig(*cfg)
	}

	bucket := config.DumpBucket
	key := DumpObjectKey(config, fileName)

	_, err = s3client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(dumpContentType(body)),
		Body:        bytes.NewReader(body)})

	if err != nil {
		return "", fmt.Errorf("S3 put %s/%s: %w", bucket, key, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, cfg.Region, key), nil
}
