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
package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/penny-vault/idxstats/data"
	"github.com/rs/zerolog"
)

// Placeholder is written in place of generated commentary whenever the
// provider cannot be reached
const Placeholder = "## Commentary refresh unavailable\n\n" +
	"Automatically generated commentary is not available right now. Check the API key configuration and network connectivity.\n"

// Refresh submits the prompt in promptFn to the named provider and writes
// the reply to outFn. Only a missing prompt is an error: an unknown
// provider, a missing credential or a failed request leave the placeholder
// in outFn instead.
func Refresh(ctx context.Context, providerName, promptFn, outFn string, opts Options) error {
	logger := zerolog.Ctx(ctx)

	prompt, err := os.ReadFile(promptFn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: prompt file %s", data.ErrInputNotFound, promptFn)
		}
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outFn), 0o755); err != nil {
		return err
	}

	text, err := generate(ctx, providerName, string(prompt), opts)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredential), errors.Is(err, ErrProviderNotFound):
			logger.Warn().Err(err).Str("Provider", providerName).Msg("skipping commentary refresh")
		default:
			logger.Error().Err(err).Str("Provider", providerName).Msg("commentary request failed")
		}

		if err := os.WriteFile(outFn, []byte(Placeholder), 0o644); err != nil {
			return err
		}
		logger.Info().Str("FileName", outFn).Msg("wrote placeholder notes")
		return nil
	}

	if err := os.WriteFile(outFn, []byte(text), 0o644); err != nil {
		return err
	}

	logger.Info().Str("FileName", outFn).Str("Provider", providerName).Msg("notes updated")
	return nil
}

func generate(ctx context.Context, providerName, prompt string, opts Options) (string, error) {
	provider, ok := Map[providerName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrProviderNotFound, providerName)
	}

	zerolog.Ctx(ctx).Info().Str("Provider", provider.Name()).Str("Model", opts.Model).Msg("submitting prompt")
	return provider.Generate(ctx, prompt, opts)
}
