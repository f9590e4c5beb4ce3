package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	cz "cfbzip"
)

func main() {
	if len(os.Args) < 2 {
		showUsage()
		fmt.Println("\nError: No mode specified.")
		return
	}
	cmd := strings.ToLower(os.Args[1])
	flagSet := flag.NewFlagSet("cfbzip", flag.ExitOnError)
	flagSet.StringVar(&outPath, "out", "", "output zip file, or directory for several inputs (default: next to the input)")
	flagSet.StringVar(&topLevel, "top", topLevel, "top-level folder inside the zip")
	flagSet.BoolVar(&toStdOut, "stdout", false, "output zip data to stdout")
	flagSet.BoolVar(&progress, "progress", true, "show progress bar")
	flagSet.IntVar(&level, "level", level, "deflate level (-2 huffman only, 0 store .. 9 best)")
	flagSet.StringVar(&sumName, "sum", "", "checksum for the s option: crc32, crc16, xxhash, sha256, blake3, blake2b")
	flagSet.StringVar(&encode, "encode", "", "encode the written zip: fec, b32 or b64")
	flagSet.IntVar(&fecDataShards, "fec-data", fecDataShards, "FEC data shards")
	flagSet.IntVar(&fecParityShards, "fec-parity", fecParityShards, "FEC parity shards")
	flagSet.IntVar(&threads, "threads", threads, "inputs converted at once")
	flagSet.StringVar(&maxArchive, "max-size", maxArchive, "largest zip to build")
	flagSet.StringVar(&maxEntry, "max-entry", maxEntry, "largest stream to accept")
	flagSet.StringVar(&maxInput, "max-input", maxInput, "largest decoded input to accept")
	flagSet.BoolVar(&spaceCheck, "spacecheck", true, "check free space before writing")
	flagSet.Parse(os.Args[2:])

	//Options
	for _, letter := range cmd {
		switch letter {

		case 'n':
			features.Clear(cz.FeatureSniff)
		case 's':
			features.Set(cz.FeatureChecksums)
		case 'y':
			features.Set(cz.FeatureVerify)
		case 'v':
			verboseMode = true
		case 'q':
			quietMode = true
		case 'f':
			doForce = true
		default:
			continue
		}
		cmd = cmd[:len(cmd)-1]
	}

	if len(cmd) == 0 {
		showUsage()
		log.Fatal("No mode specified")
	}
	if _, err := cz.ParseSum(sumName); err != nil {
		log.Fatalf("-sum: %v", err)
	}
	if threads < 1 {
		threads = 1
	}

	//Modes
	switch cmd[0] {
	case 'c':
		if err := convertInputs(flagSet.Args()); err != nil {
			log.Fatalf("convert: %v", err)
		}
	case 'l':
		if err := listInputs(flagSet.Args(), false); err != nil {
			log.Fatalf("list: %v", err)
		}
	case 'j':
		if err := listInputs(flagSet.Args(), true); err != nil {
			log.Fatalf("list: %v", err)
		}
	default:
		showUsage()
		doLog(false, "Unknown mode: %c", cmd[0])
		return
	}
}

func showUsage() {
	fmt.Println("Usage: cfbzip [c|l|j][nsyvqf] -out=zipFile [input files...]")
	fmt.Println("Output zip to stdout: -stdout, No progress bar: -progress=false")
	fmt.Println("\nModes:")
	fmt.Println("  c = Convert compound files to zip archives")
	fmt.Println("  l = List the entries a conversion would write")
	fmt.Println("  j = List as JSON")

	fmt.Println("\nOptions:")
	fmt.Print("  n = No extension repair	")
	fmt.Println("  s = Sums (print checksum)")
	fmt.Print("  y = Verify written zip	")
	fmt.Println("  v = Verbose logging")
	fmt.Print("  q = Quiet			")
	fmt.Println("  f = Force (overwrite files)")
	fmt.Println()
	fmt.Println("  cfbzip c emotes.cfb			(writes emotes.zip)")
	fmt.Println("  cfbzip cy -out=zips a.cfb b.cfb.gz	(verify, into zips/)")
	fmt.Println("")
	fmt.Println("  cfbzip l emotes.cfb")
}
