// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package openai implements the ai interfaces using OpenAI-compatible APIs.
//
// The implementations work with any OpenAI-compatible endpoint (OpenAI,
// Ollama, LocalAI, vLLM). Classification uses JSON mode with fence stripping
// and JSON repair to tolerate imperfect model output; summaries and
// embeddings are straight chat/embedding calls. Each service logs failures
// via slog and returns them as plain errors - degradation policy lives with
// the caller.
package openai
