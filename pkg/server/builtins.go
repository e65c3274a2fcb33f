package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/resources"
	"github.com/contextworks/mcp-gateway/pkg/result"
	"github.com/contextworks/mcp-gateway/pkg/schema"
	"github.com/contextworks/mcp-gateway/pkg/store"
	"github.com/contextworks/mcp-gateway/pkg/tools"
)

// EventInstructionsUpdated is published on the event bus after the global
// instructions document changes. The payload is the new text.
const EventInstructionsUpdated = "instructions/updated"

// URIInstructions is the resource exposing the global instructions document.
const URIInstructions = "instructions://global"

// URIWorkspaceManifest is the resource exposing the workspace file listing.
const URIWorkspaceManifest = "workspace://manifest"

// builtinTools returns the tool set every gateway ships with.
func builtinTools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "echo",
			Description: "Echo the given text back to the caller",
			Schema: schema.NewObject(map[string]schema.Property{
				"text": {Type: schema.TypeString, Description: "Text to echo", Required: true},
			}),
			Handler: handleEcho,
		},
		{
			Name:        "ping",
			Description: "Report liveness and the current server time",
			Schema:      schema.NewObject(nil),
			Handler:     handlePingTool,
		},
		{
			Name:        "workspace_list",
			Description: "List the files in the workspace",
			Schema:      schema.NewObject(nil),
			Handler:     handleWorkspaceList,
		},
		{
			Name:        "workspace_read",
			Description: "Read one workspace file",
			Schema: schema.NewObject(map[string]schema.Property{
				"name": {Type: schema.TypeString, Description: "File name relative to the workspace root", Required: true, MinLength: 1},
			}),
			Handler: handleWorkspaceRead,
		},
		{
			Name:        "workspace_write",
			Description: "Create or overwrite one workspace file",
			Schema: schema.NewObject(map[string]schema.Property{
				"name":      {Type: schema.TypeString, Description: "File name relative to the workspace root", Required: true, MinLength: 1},
				"content":   {Type: schema.TypeString, Description: "Full file contents", Required: true},
				"overwrite": {Type: schema.TypeBoolean, Description: "Replace the file if it already exists", Default: false},
			}),
			Handler: handleWorkspaceWrite,
		},
		{
			Name:        "workspace_delete",
			Description: "Delete one workspace file",
			Schema: schema.NewObject(map[string]schema.Property{
				"name": {Type: schema.TypeString, Description: "File name relative to the workspace root", Required: true, MinLength: 1},
			}),
			Handler: handleWorkspaceDelete,
		},
		{
			Name:        "instructions_get",
			Description: "Read the global instructions document",
			Schema:      schema.NewObject(nil),
			Handler:     handleInstructionsGet,
		},
		{
			Name:        "instructions_update",
			Description: "Replace the global instructions document",
			Schema: schema.NewObject(map[string]schema.Property{
				"instructions": {Type: schema.TypeString, Description: "New instructions text", Required: true},
			}),
			Handler: handleInstructionsUpdate,
		},
	}
}

// builtinResources returns the resource set every gateway ships with.
func builtinResources(tc *tools.Context) []resources.Resource {
	return []resources.Resource{
		{
			URI:         URIInstructions,
			Name:        "instructions",
			Description: "The global instructions document",
			MimeType:    "text/plain",
			Reader: func(ctx context.Context) (string, error) {
				return tc.Instructions.Get(ctx)
			},
		},
		{
			URI:         URIWorkspaceManifest,
			Name:        "workspace-manifest",
			Description: "Listing of every workspace file",
			MimeType:    "application/json",
			Reader: func(ctx context.Context) (string, error) {
				entries, err := tc.Workspace.List(ctx)
				if err != nil {
					return "", err
				}
				manifest := make([]map[string]interface{}, 0, len(entries))
				for _, entry := range entries {
					manifest = append(manifest, map[string]interface{}{
						"name":     entry.Name,
						"size":     entry.Size,
						"modified": entry.ModTime.UTC().Format(time.RFC3339),
					})
				}
				data, err := json.Marshal(manifest)
				if err != nil {
					return "", err
				}
				return string(data), nil
			},
		},
	}
}

func handleEcho(ctx context.Context, args map[string]interface{}, tc *tools.Context) result.Result[interface{}] {
	return result.Ok[interface{}](map[string]interface{}{
		"text": stringArg(args, "text"),
	})
}

func handlePingTool(ctx context.Context, args map[string]interface{}, tc *tools.Context) result.Result[interface{}] {
	return result.Ok[interface{}](map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
	})
}

func handleWorkspaceList(ctx context.Context, args map[string]interface{}, tc *tools.Context) result.Result[interface{}] {
	entries, err := tc.Workspace.List(ctx)
	if err != nil {
		return result.Err[interface{}](workspaceErr("workspace_list", "", err))
	}
	files := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		files = append(files, map[string]interface{}{
			"name":     entry.Name,
			"size":     entry.Size,
			"modified": entry.ModTime.UTC().Format(time.RFC3339),
		})
	}
	return result.Ok[interface{}](map[string]interface{}{"files": files})
}

func handleWorkspaceRead(ctx context.Context, args map[string]interface{}, tc *tools.Context) result.Result[interface{}] {
	name := stringArg(args, "name")
	data, err := tc.Workspace.Read(ctx, name)
	if err != nil {
		return result.Err[interface{}](workspaceErr("workspace_read", name, err))
	}
	return result.Ok[interface{}](map[string]interface{}{
		"name":    name,
		"content": string(data),
	})
}

func handleWorkspaceWrite(ctx context.Context, args map[string]interface{}, tc *tools.Context) result.Result[interface{}] {
	name := stringArg(args, "name")
	content := stringArg(args, "content")
	overwrite := boolArg(args, "overwrite")

	var err error
	if overwrite {
		err = tc.Workspace.Write(ctx, name, []byte(content))
	} else {
		err = tc.Workspace.WriteNew(ctx, name, []byte(content))
	}
	if stderrors.Is(err, store.ErrExists) {
		return result.Err[interface{}](errors.PermissionDenied(
			"workspace_write", fmt.Sprintf("%s already exists and overwrite is false", name)))
	}
	if err != nil {
		return result.Err[interface{}](workspaceErr("workspace_write", name, err))
	}
	return result.Ok[interface{}](map[string]interface{}{
		"name":    name,
		"written": len(content),
	})
}

func handleWorkspaceDelete(ctx context.Context, args map[string]interface{}, tc *tools.Context) result.Result[interface{}] {
	name := stringArg(args, "name")
	if err := tc.Workspace.Delete(ctx, name); err != nil {
		return result.Err[interface{}](workspaceErr("workspace_delete", name, err))
	}
	return result.Ok[interface{}](map[string]interface{}{
		"name":    name,
		"deleted": true,
	})
}

func handleInstructionsGet(ctx context.Context, args map[string]interface{}, tc *tools.Context) result.Result[interface{}] {
	text, err := tc.Instructions.Get(ctx)
	if err != nil {
		return result.Err[interface{}](errors.Internal("instructions_get", err))
	}
	return result.Ok[interface{}](map[string]interface{}{"instructions": text})
}

func handleInstructionsUpdate(ctx context.Context, args map[string]interface{}, tc *tools.Context) result.Result[interface{}] {
	text := stringArg(args, "instructions")
	if err := tc.Instructions.Set(ctx, text); err != nil {
		return result.Err[interface{}](errors.Internal("instructions_update", err))
	}
	// Best-effort notification; subscribers cannot fail the update.
	if tc.Events != nil {
		tc.Events.Publish(ctx, EventInstructionsUpdated, text)
	}
	return result.Ok[interface{}](map[string]interface{}{"updated": true})
}

// workspaceErr maps repository failures onto protocol errors. Invalid names
// are treated as a permission problem rather than leaking path semantics.
func workspaceErr(operation, name string, err error) *errors.Error {
	switch {
	case stderrors.Is(err, store.ErrInvalidName):
		return errors.PermissionDenied(operation, fmt.Sprintf("invalid name %q", name))
	case stderrors.Is(err, store.ErrNotFound):
		return errors.ResourceNotFound(name)
	default:
		return errors.Internal(operation, err)
	}
}

// stringArg reads a validated string argument. The schema validator has
// already established the type, so a missing optional simply yields "".
func stringArg(args map[string]interface{}, key string) string {
	value, _ := args[key].(string)
	return value
}

func boolArg(args map[string]interface{}, key string) bool {
	value, _ := args[key].(bool)
	return value
}
