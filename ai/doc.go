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


// Package ai provides abstractions for the language model used by reportgen.
//
// Report generation depends on the TextGenerator interface rather than on a
// vendor SDK, so the prompt and extraction logic can be tested without
// network access and the hosted model can be swapped for a local one.
//
// # Interfaces
//
//   - TextGenerator: one prompt in, one text response out
//   - AIProvider: owns a TextGenerator and its client lifecycle
//
// ModelGenerator adapts any langchaingo llms.Model to TextGenerator.
//
// # Implementation Packages
//
//   - ai/googleai: Gemini through langchaingo's Google AI client (default)
//   - ai/openai: any OpenAI-compatible API (OpenAI, Ollama, vLLM)
//   - ai/mock: test doubles for unit tests
//
// # Configuration
//
// Config follows the functional options pattern and can be loaded from the
// environment:
//
//	cfg, err := ai.LoadConfig(".env")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err) // ErrMissingAPIKey when GOOGLE_GENAI_API_KEY is unset
//	}
//
// Recognized variables: GOOGLE_GENAI_API_KEY, REPORTGEN_BACKEND,
// REPORTGEN_MODEL, REPORTGEN_HOST.
package ai
