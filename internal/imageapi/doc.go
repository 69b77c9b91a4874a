// Package imageapi is the HTTP client for the OpenAI Responses API used to
// generate meme images and meme ideas.
//
// Both operations POST to /v1/responses:
//
//   - GenerateImage sends the prompt with the image_generation tool and
//     returns the base64 result of the first image_generation_call.
//   - GenerateIdea sends a system and user message with a strict
//     json_schema text format and decodes the reply into a meme.Idea.
//
// The credential may change at runtime through SetAPIKey. When it is blank
// the request goes out without an Authorization header. Non-2xx replies
// become *APIError carrying the API's error message. Nothing is retried.
package imageapi
