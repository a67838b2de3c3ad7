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

package api

//go:generate mockgen -destination=mock_client.go -package=api github.com/carverauto/guilddash/pkg/api Client

import (
	"context"

	"github.com/carverauto/guilddash/pkg/models"
)

// Client reads from the export service.
type Client interface {
	// FetchServer retrieves the full export from /api/all.
	FetchServer(ctx context.Context) (*models.ServerSnapshot, error)
	// FetchRealtime retrieves live presence from /api/realtime.
	FetchRealtime(ctx context.Context) (*models.RealtimeSnapshot, error)
	// Health retrieves /api/health.
	Health(ctx context.Context) (*models.Health, error)
}
