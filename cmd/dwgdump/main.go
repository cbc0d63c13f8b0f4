// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	dwgparser "github.com/dwgkit/dwg"
)

var (
	verbose    bool
	failsafe   bool
	header     bool
	classes    bool
	layers     bool
	linetypes  bool
	blocks     bool
	warnings   bool
	all        bool
)

func prettyPrint(v interface{}) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return pretty.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func dumpDWG(filename string, cmd *cobra.Command) {
	log.Printf("Processing filename %s", filename)

	doc, err := dwgparser.Open(filename, dwgparser.Config{Failsafe: failsafe})
	if err != nil {
		log.Printf("Error while opening file: %s, reason: %s", filename, err)
		return
	}

	wantHeader, _ := cmd.Flags().GetBool("header")
	if wantHeader || all {
		fmt.Println(prettyPrint(doc.Header))
	}

	wantClasses, _ := cmd.Flags().GetBool("classes")
	if wantClasses || all {
		fmt.Println(prettyPrint(doc.Classes))
	}

	wantLayers, _ := cmd.Flags().GetBool("layers")
	if wantLayers || all {
		fmt.Println(prettyPrint(doc.Layers.Entries))
	}

	wantLinetypes, _ := cmd.Flags().GetBool("linetypes")
	if wantLinetypes || all {
		fmt.Println(prettyPrint(doc.Linetypes.Entries))
	}

	wantBlocks, _ := cmd.Flags().GetBool("blocks")
	if wantBlocks || all {
		fmt.Println(prettyPrint(doc.BlockRecords.Entries))
	}

	wantWarnings, _ := cmd.Flags().GetBool("warnings")
	if wantWarnings || all {
		fmt.Println(prettyPrint(doc.Warnings))
	}
}

func dump(cmd *cobra.Command, args []string) {
	path := args[0]

	if !isDirectory(path) {
		dumpDWG(path, cmd)
		return
	}

	var files []string
	filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	for _, f := range files {
		dumpDWG(f, cmd)
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "dwgdump",
		Short: "A DWG drawing file parser",
		Long:  "A DWG binary drawing format parser and dumper",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("dwgdump 0.0.1")
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Dumps the file",
		Long:  "Dumps the decoded structure of a DWG drawing file",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	dumpCmd.Flags().BoolVarP(&failsafe, "failsafe", "", true, "downgrade parse errors to warnings instead of aborting")
	dumpCmd.Flags().BoolVarP(&header, "header", "", false, "dump header variables")
	dumpCmd.Flags().BoolVarP(&classes, "classes", "", false, "dump the DXF class table")
	dumpCmd.Flags().BoolVarP(&layers, "layers", "", false, "dump the layer table")
	dumpCmd.Flags().BoolVarP(&linetypes, "linetypes", "", false, "dump the linetype table")
	dumpCmd.Flags().BoolVarP(&blocks, "blocks", "", false, "dump block records")
	dumpCmd.Flags().BoolVarP(&warnings, "warnings", "", false, "dump recovered warnings")
	dumpCmd.Flags().BoolVarP(&all, "all", "", false, "dump everything")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
