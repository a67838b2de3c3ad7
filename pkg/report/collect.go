/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/guilddash/pkg/api"
)

// Sources picks the endpoints Collect reads.
type Sources struct {
	Server   bool
	Realtime bool
}

// Collect fetches the selected endpoints concurrently. The first failure
// cancels the other request.
func Collect(ctx context.Context, client api.Client, src Sources) (*Report, error) {
	var r Report

	g, ctx := errgroup.WithContext(ctx)

	if src.Server {
		g.Go(func() error {
			snap, err := client.FetchServer(ctx)
			if err != nil {
				return fmt.Errorf("server snapshot: %w", err)
			}

			r.Server = snap

			return nil
		})
	}

	if src.Realtime {
		g.Go(func() error {
			rt, err := client.FetchRealtime(ctx)
			if err != nil {
				return fmt.Errorf("realtime snapshot: %w", err)
			}

			r.Realtime = rt

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &r, nil
}
