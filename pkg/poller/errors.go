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

package poller

import "errors"

var (
	errNameRequired    = errors.New("poller name is required")
	errMessageRequired = errors.New("poller failure message is required")
	errNilFetch        = errors.New("poller fetch function is nil")
	errEmptyResponse   = errors.New("fetch returned no data")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrUnknownOverlap  = errors.New("unknown overlap policy")
)
