package params

// IsoSeq is the parameter set of the nf-core/isoseq pipeline, in the order
// the flags are passed to Nextflow.
var IsoSeq = NewRegistry(
	Spec{
		Name:        "input",
		Kind:        KindFile,
		Section:     "Input/output options",
		Description: "Path to comma-separated file containing information about the samples in the experiment.",
	},
	Spec{
		Name:        "primers",
		Kind:        KindString,
		Description: "Fasta file of primers sequences",
	},
	Spec{
		Name:        "gtf",
		Kind:        KindOptionalString,
		Description: "Genome annotation file",
	},
	Spec{
		Name:        "outdir",
		Kind:        KindDir,
		Output:      true,
		Description: "The output directory where the results will be saved. You have to use absolute paths to storage on Cloud infrastructure.",
	},
	Spec{
		Name:        "email",
		Kind:        KindOptionalString,
		Description: "Email address for completion summary.",
	},
	Spec{
		Name:        "multiqc_title",
		Kind:        KindOptionalString,
		Description: "MultiQC report title. Printed as page header, used for filename if not otherwise specified.",
	},
	Spec{
		Name:        "chunk",
		Kind:        KindOptionalInt,
		Default:     Int(40),
		Section:     "CCS options",
		Description: "ccs --chunk option, define the number of batches to run in parallel",
	},
	Spec{
		Name:        "rq",
		Kind:        KindOptionalFloat,
		Default:     Float(0.9),
		Description: "ccs --rq option, define the minimum read quality for CCS selection",
	},
	Spec{
		Name:        "min_passes",
		Kind:        KindOptionalInt,
		Default:     Int(3),
		Description: "ccs --min-passes option, define the minimum number of passes to select a CCS",
	},
	Spec{
		Name:        "min_snr",
		Kind:        KindOptionalFloat,
		Default:     Float(2.5),
		Description: "ccs --min-snr option, minimum SNR of subreads to use for generating CCS",
	},
	Spec{
		Name:        "min_length",
		Kind:        KindOptionalInt,
		Default:     Int(10),
		Description: "ccs --min-length option, minimum CCS length for CCS selection",
	},
	Spec{
		Name:        "max_length",
		Kind:        KindOptionalInt,
		Default:     Int(50000),
		Description: "ccs --max-length option, maximum CCS length for CCS selection",
	},
	Spec{
		Name:        "top_passes",
		Kind:        KindOptionalInt,
		Default:     Int(60),
		Description: "ccs --top-passes option, maximum number of passes to use for CCS generation",
	},
	Spec{
		Name:        "aligner",
		Kind:        KindString,
		Section:     "Aligner option",
		Description: "Aligner to use for mapping: minimap2 or ultra",
	},
	Spec{
		Name:        "capped",
		Kind:        KindOptionalBool,
		Section:     "TAMA options",
		Description: "TAMA collapse: Capped RNA?",
	},
	Spec{
		Name:        "five_prime",
		Kind:        KindOptionalInt,
		Default:     Int(100),
		Description: "TAMA collapse: 5 prime wobble threshold",
	},
	Spec{
		Name:        "splice_junction",
		Kind:        KindOptionalInt,
		Default:     Int(10),
		Description: "TAMA collapse: Splice junction / exon wobble threshold",
	},
	Spec{
		Name:        "three_prime",
		Kind:        KindOptionalInt,
		Default:     Int(100),
		Description: "TAMA collapse: 3 prime wobble threshold",
	},
	Spec{
		Name:        "genome",
		Kind:        KindOptionalString,
		Section:     "Reference genome options",
		Description: "Name of iGenomes reference.",
	},
	Spec{
		Name:        "fasta",
		Kind:        KindOptionalFile,
		Description: "Path to FASTA genome file.",
	},
	Spec{
		Name:        "multiqc_methods_description",
		Kind:        KindOptionalString,
		Section:     "Generic options",
		Description: "Custom MultiQC yaml file containing HTML including a methods description.",
	},
)
