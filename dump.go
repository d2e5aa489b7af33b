package mealinfo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

// dumpOutput writes a raw response body that could not be normalized, for
// later inspection. Nothing reads these back. Returns the S3 url, if sent there.
func dumpOutput(config *Config, name string, body []byte) (url string) {
	if len(body) == 0 || (!config.DumpOutput && !config.DumpOutputS3) {
		return ""
	}

	hashBytes := sha256.Sum256(body)
	hash := hex.EncodeToString(hashBytes[:])

	fileName := fmt.Sprintf("%s.%s.out", name, hash)
	var err error

	if config.DumpOutputS3 {
		if HasAWSCredentials(config.AWSRegion) {
			url, err = UploadDump(config, fileName, body)
			if err != nil {
				Log.Warnf("%v", err)
			} else {
				Log.Debugf("Sent %d bytes to S3: %s", len(body), url)
			}
		} else {
			Log.Warnf("Configured to dump output to S3 but no AWS credentials were found")
		}
	}

	if config.DumpOutput {
		if err := os.MkdirAll(config.DumpDir, 0755); err != nil {
			Log.Warnf("Can't create dump dir %s: %v", config.DumpDir, err)
			return url
		}

		filePath := filepath.Join(config.DumpDir, fileName)

		if _, err := os.Stat(filePath); err == nil {
			return url
		}

		if err := ioutil.WriteFile(filePath, body, 0644); err != nil {
			Log.Warnf("%v", err)
			return url
		}

		Log.Debugf("Wrote %d bytes to file: %s", len(body), filePath)
	}

	return url
}
