package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func topicCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "topic", Short: "Inspect and create topics"}

	ls := &cobra.Command{
		Use:   "ls <cluster-id>",
		Short: "List topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topics, err := kd.ListTopics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeYAML(topics)
		},
	}

	var partitions int32
	var replication int16
	create := &cobra.Command{
		Use:   "create <cluster-id> <name>",
		Short: "Create a topic (fails if it already exists)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return kd.CreateTopic(cmd.Context(), args[0], args[1], partitions, replication)
		},
	}
	create.Flags().Int32VarP(&partitions, "partitions", "p", 1, "partition count")
	create.Flags().Int16VarP(&replication, "replication", "r", 1, "replication factor")

	count := &cobra.Command{
		Use:   "count <cluster-id> <topic>",
		Short: "Estimate retained message count from partition watermarks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := kd.EstimateCount(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}

	cmd.AddCommand(ls, create, count)
	return cmd
}

func publishCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "publish <cluster-id> <topic> <payload>",
		Short: "Publish one message and wait for acknowledgment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var keyPtr *string
			if cmd.Flags().Changed("key") {
				keyPtr = &key
			}
			return kd.Publish(cmd.Context(), args[0], args[1], keyPtr, args[2])
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "record key")
	return cmd
}

func sampleCmd() *cobra.Command {
	var max int
	cmd := &cobra.Command{
		Use:   "sample <cluster-id> <topic>",
		Short: "Read a topic's most recent messages, newest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := kd.Sample(cmd.Context(), args[0], args[1], max)
			if err != nil {
				return err
			}
			return writeYAML(msgs)
		},
	}
	cmd.Flags().IntVarP(&max, "max", "n", 10, "maximum messages to return")
	return cmd
}
