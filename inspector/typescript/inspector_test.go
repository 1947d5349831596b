package typescript_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/typescript"
)

func TestInspector_InspectSource(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		source        string
		wantImports   []string
		wantClasses   []string
		wantFunctions []string
		wantExports   []string
	}{
		{
			name: "typescript module",
			path: "src/user.ts",
			source: `import { Injectable } from '@angular/core';

export interface User {
  id: number;
}

export class UserService {
  find(id: number): User | undefined {
    for (const u of this.users) {
      if (u.id === id) {
        return u;
      }
    }
    return undefined;
  }
  private users: User[] = [];
}

export function create(id: number): User {
  return { id };
}
`,
			wantImports:   []string{"@angular/core"},
			wantClasses:   []string{"User", "UserService"},
			wantFunctions: []string{"find", "create"},
			wantExports:   []string{"User", "UserService", "create"},
		},
		{
			name: "tsx component",
			path: "src/App.tsx",
			source: `import React from "react";

type Props = { title: string };

export const App = ({ title }: Props) => <h1>{title}</h1>;
`,
			wantImports:   []string{"react"},
			wantClasses:   []string{},
			wantFunctions: []string{"App"},
			wantExports:   []string{"App"},
		},
	}

	inspector, err := typescript.NewInspector()
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := inspector.InspectSource(context.Background(), tt.path, []byte(tt.source))
			require.NoError(t, err)
			assert.Equal(t, info.TypeScript, file.Language)
			assert.Equal(t, tt.wantImports, file.Imports)
			assert.Equal(t, tt.wantClasses, file.Classes)
			assert.Equal(t, tt.wantFunctions, file.Functions)
			assert.Equal(t, tt.wantExports, file.Exports)
		})
	}
}
