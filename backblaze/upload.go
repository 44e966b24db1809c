// Copyright 2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package backblaze

import (
	"errors"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/kothar/go-backblaze"
	"github.com/rs/zerolog/log"
)

var ErrBucketNotFound = errors.New("bucket not found")

type Credentials struct {
	ApplicationID  string
	ApplicationKey string
}

// ObjectName joins prefix and the slash separated relative path of a file
func ObjectName(prefix, rel string) string {
	rel = filepath.ToSlash(rel)
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

// UploadDir uploads every regular file below dir to bucketName, keeping the
// relative layout under prefix. It returns the number of files uploaded.
func UploadDir(creds Credentials, bucketName, prefix, dir string) (int, error) {
	bucket, err := openBucket(creds, bucketName)
	if err != nil {
		return 0, err
	}

	count := 0
	err = filepath.WalkDir(dir, func(fn string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, fn)
		if err != nil {
			return err
		}

		if err := upload(bucket, bucketName, fn, ObjectName(prefix, rel)); err != nil {
			return err
		}
		count++
		return nil
	})

	return count, err
}

func openBucket(creds Credentials, bucketName string) (*backblaze.Bucket, error) {
	b2, err := backblaze.NewB2(backblaze.Credentials{
		KeyID:          creds.ApplicationID,
		ApplicationKey: creds.ApplicationKey,
	})
	if err != nil {
		log.Error().Err(err).Str("BucketName", bucketName).Msg("authorize backblaze failed")
		return nil, err
	}

	bucket, err := b2.Bucket(bucketName)
	if err != nil {
		log.Error().Err(err).Str("BucketName", bucketName).Msg("lookup bucket failed")
		return nil, err
	}
	if bucket == nil {
		log.Error().Str("BucketName", bucketName).Msg("bucket does not exist")
		return nil, ErrBucketNotFound
	}

	return bucket, nil
}

func upload(bucket *backblaze.Bucket, bucketName, fn, outName string) error {
	reader, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(fn))
	if contentType == "" {
		contentType = "b2/x-auto"
	}

	metadata := make(map[string]string)
	file, err := bucket.UploadTypedFile(outName, contentType, metadata, reader)
	if err != nil {
		log.Error().Err(err).Str("FileName", outName).Str("BucketName", bucketName).Msg("save file to backblaze failed")
		return err
	}

	log.Info().Str("FileName", file.Name).Int64("Size", file.ContentLength).Str("ID", file.ID).Msg("uploaded file to backblaze")
	return nil
}
